package middleware

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockdash/config"
	"stockdash/model"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressedServer(t *testing.T, encoding string, payload []byte) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	switch encoding {
	case "gzip":
		w := gzip.NewWriter(&buf)
		w.Write(payload)
		w.Close()
	case "br":
		w := brotli.NewWriter(&buf)
		w.Write(payload)
		w.Close()
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", encoding)
		w.Write(buf.Bytes())
	}))
}

func TestDecompressMiddleware(t *testing.T) {
	payload := []byte("<table><tr><th>Symbol</th></tr></table>")

	for _, encoding := range []string{"gzip", "br"} {
		server := compressedServer(t, encoding, payload)

		client := resty.New().SetHeader("Accept-Encoding", encoding)
		client.OnAfterResponse(DecompressMiddleware)

		resp, err := client.R().Get(server.URL)
		require.NoError(t, err, encoding)
		assert.Equal(t, payload, resp.Body(), encoding)
		server.Close()
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.NewConfigManager(&model.EnvConfig{RateLimiter: true, RequestsPerSecond: 1, Burst: 2})

	r := gin.New()
	r.Use(RateLimiter(cfg))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.NewConfigManager(&model.EnvConfig{RateLimiter: false})

	r := gin.New()
	r.Use(RateLimiter(cfg))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RecoveryMiddleware, MetricsMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "unexpected_panic")
}
