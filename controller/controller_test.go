package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"stockdash/cache"
	"stockdash/customerrors"
	"stockdash/model"
	"stockdash/service"
	"stockdash/templates"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	tables map[string]model.Table
}

func (s stubLoader) LoadTable(_ context.Context, url string, _ int) (model.Table, error) {
	table, ok := s.tables[url]
	if !ok {
		return model.Table{}, fmt.Errorf("%w: 503", customerrors.ErrSourceTableUnavailable)
	}
	return table, nil
}

type stubFetcher struct {
	closes map[string][]float64
}

func (s stubFetcher) FetchPrices(_ context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	closes, ok := s.closes[ticker]
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("%w: no bars for %s", customerrors.ErrPriceDataUnavailable, ticker)
	}
	series := model.PriceSeries{Ticker: ticker, Start: start, End: end}
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		series.Bars = append(series.Bars, model.Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: int64(1000 * (i + 1)),
		})
	}
	return series, nil
}

const appleName = "Apple Inc. (AAPL)"

func testServices(t *testing.T) (service.CatalogService, service.PriceService, service.DashboardService) {
	t.Helper()
	loader := stubLoader{tables: map[string]model.Table{
		"http://us": {
			Columns: []string{"Symbol", "Security"},
			Rows: []map[string]string{
				{"Symbol": "AAPL", "Security": "Apple Inc."},
				{"Symbol": "NOPE", "Security": "Delisted Corp"},
			},
		},
	}}
	markets := []model.MarketConfig{
		{ID: "us", Name: "United States", Url: "http://us", NameColumn: "Security", TickerColumn: "Symbol"},
		{ID: "down", Name: "Offline", Url: "http://down", NameColumn: "Company", TickerColumn: "Ticker"},
	}
	catalog := service.NewCatalogService(context.Background(), loader, markets, time.Second)

	fetcher := stubFetcher{closes: map[string][]float64{
		"AAPL": {10, 10, 10, 12, 14, 16, 14, 12, 10, 8, 6},
	}}
	prices := service.NewPriceService(fetcher, cache.NewMemoryPriceCache())
	return catalog, prices, service.NewDashboardService(catalog, prices)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, data any) {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NoError(t, json.Unmarshal(body.Data, data))
}

func TestMarketController(t *testing.T) {
	catalog, _, _ := testServices(t)
	_, api := humatest.New(t)
	NewMarketController(catalog).RegisterRoutes(api)

	resp := api.Get("/api/markets")
	require.Equal(t, http.StatusOK, resp.Code)
	var markets []model.MarketStatus
	decode(t, resp, &markets)
	require.Len(t, markets, 2)
	assert.Equal(t, "us", markets[0].ID)
	assert.Equal(t, 2, markets[0].Stocks)
	assert.Empty(t, markets[0].Error)
	assert.Equal(t, 0, markets[1].Stocks)
	assert.NotEmpty(t, markets[1].Error)

	resp = api.Get("/api/markets/us/stocks")
	require.Equal(t, http.StatusOK, resp.Code)
	var stocks []string
	decode(t, resp, &stocks)
	assert.Equal(t, []string{appleName, "Delisted Corp (NOPE)"}, stocks)

	resp = api.Get("/api/markets/mars/stocks")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func signalPath(path string, params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return path + "?" + values.Encode()
}

func TestSignalController_Prices(t *testing.T) {
	catalog, prices, dashboard := testServices(t)
	_, api := humatest.New(t)
	NewSignalController(catalog, prices, dashboard).RegisterRoutes(api)

	resp := api.Get(signalPath("/api/prices", map[string]string{
		"market": "us", "stock": appleName, "start": "2024-01-01", "end": "2024-01-31",
	}))
	require.Equal(t, http.StatusOK, resp.Code)

	var bars []model.BarDto
	decode(t, resp, &bars)
	require.Len(t, bars, 11)
	assert.Equal(t, "2024-01-02", bars[0].Date)
	assert.Equal(t, 10.0, bars[0].Close)
	assert.Equal(t, int64(1000), bars[0].Volume)
	assert.Equal(t, "2024-01-12", bars[10].Date)
}

func TestSignalController_Signals(t *testing.T) {
	catalog, prices, dashboard := testServices(t)
	_, api := humatest.New(t)
	NewSignalController(catalog, prices, dashboard).RegisterRoutes(api)

	resp := api.Get(signalPath("/api/signals", map[string]string{
		"market": "us", "stock": appleName, "start": "2024-01-01", "end": "2024-01-31",
		"short": "2", "long": "3",
	}))
	require.Equal(t, http.StatusOK, resp.Code)

	var report model.SignalReport
	decode(t, resp, &report)
	assert.Equal(t, "AAPL", report.Ticker)
	assert.Equal(t, 2, report.ShortWindow)
	assert.Equal(t, 3, report.LongWindow)
	require.Len(t, report.Points, 11)
	assert.Nil(t, report.Points[0].ShortMean)
	assert.Nil(t, report.Points[1].LongMean)
	assert.Nil(t, report.Points[0].Position)
	assert.Equal(t, 1, report.Buys)
	assert.Equal(t, 1, report.Sells)
	assert.False(t, report.LastSignal)
	require.Len(t, report.Events, 2)
	assert.Equal(t, "BUY", report.Events[0].Kind)
	assert.Equal(t, "SELL", report.Events[1].Kind)
}

func TestSignalController_Errors(t *testing.T) {
	catalog, prices, dashboard := testServices(t)
	_, api := humatest.New(t)
	NewSignalController(catalog, prices, dashboard).RegisterRoutes(api)

	tests := []struct {
		name   string
		params map[string]string
		status int
	}{
		{"unknown market", map[string]string{"market": "mars", "stock": appleName}, http.StatusNotFound},
		{"unknown stock", map[string]string{"market": "us", "stock": "Nobody (ZZZ)"}, http.StatusNotFound},
		{"no price data", map[string]string{"market": "us", "stock": "Delisted Corp (NOPE)"}, http.StatusNotFound},
		{"malformed date", map[string]string{"market": "us", "stock": appleName, "start": "2024-13-40"}, http.StatusUnprocessableEntity},
		{"start after end", map[string]string{"market": "us", "stock": appleName, "start": "2024-02-01", "end": "2024-01-01"}, http.StatusUnprocessableEntity},
		{"window out of range", map[string]string{"market": "us", "stock": appleName, "short": "0"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get(signalPath("/api/signals", tt.params))
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
		})
	}
}

func TestSignalController_PricesErrors(t *testing.T) {
	catalog, prices, dashboard := testServices(t)
	_, api := humatest.New(t)
	NewSignalController(catalog, prices, dashboard).RegisterRoutes(api)

	tests := []struct {
		name   string
		params map[string]string
		status int
	}{
		{"start after end", map[string]string{"market": "us", "stock": appleName, "start": "2024-02-01", "end": "2024-01-01"}, http.StatusUnprocessableEntity},
		{"unknown market", map[string]string{"market": "mars", "stock": appleName}, http.StatusNotFound},
		{"no price data", map[string]string{"market": "us", "stock": "Delisted Corp (NOPE)"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get(signalPath("/api/prices", tt.params))
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
		})
	}

	resp := api.Get(signalPath("/api/prices", map[string]string{
		"market": "us", "stock": appleName, "start": "2024-01-05", "end": "2024-01-05",
	}))
	assert.Equal(t, http.StatusOK, resp.Code, "a single day is a valid range")
}

func dashboardRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	_, _, dashboard := testServices(t)
	r := gin.New()
	r.SetHTMLTemplate(templates.Load())
	NewDashboardController(dashboard).RegisterRoutes(r)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestDashboardController_Index(t *testing.T) {
	r := dashboardRouter(t)

	w := get(r, signalPath("/", map[string]string{
		"market": "us", "stock": appleName, "start": "2024-01-01", "end": "2024-01-31",
		"short": "2", "long": "3", "raw": "on",
	}))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "United States")
	assert.Contains(t, body, "Offline (unavailable)")
	assert.Contains(t, body, "Delisted Corp (NOPE)")
	assert.Contains(t, body, "11 sessions")
	assert.Contains(t, body, "1 buy")
	assert.Contains(t, body, "1 sell")
	assert.Contains(t, body, "/charts?")
	assert.Contains(t, body, "2024-01-12")
}

func TestDashboardController_IndexDefaults(t *testing.T) {
	r := dashboardRouter(t)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="20"`)
	assert.Contains(t, body, `value="50"`)
	assert.Contains(t, body, "Apple Inc.")
}

func TestDashboardController_IndexReportsBadInput(t *testing.T) {
	r := dashboardRouter(t)

	w := get(r, "/?market=us&short=abc&start=yesterday")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "is not a number")
	assert.Contains(t, body, "is not YYYY-MM-DD")
	assert.Contains(t, body, `value="20"`)
}

func TestDashboardController_IndexRejectsZeroWindow(t *testing.T) {
	r := dashboardRouter(t)

	w := get(r, signalPath("/", map[string]string{"market": "us", "stock": appleName, "short": "0"}))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "short window must be at least 1")
	assert.Contains(t, body, `name="short" min="1" max="200" value="0"`)
	assert.NotContains(t, body, "<iframe")
}

func TestDashboardController_IndexWithoutPrices(t *testing.T) {
	r := dashboardRouter(t)

	w := get(r, signalPath("/", map[string]string{"market": "us", "stock": "Delisted Corp (NOPE)"}))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No price data for NOPE")
	assert.NotContains(t, body, "<iframe")
}

func TestDashboardController_Charts(t *testing.T) {
	r := dashboardRouter(t)

	w := get(r, signalPath("/charts", map[string]string{
		"market": "us", "stock": appleName, "start": "2024-01-01", "end": "2024-01-31",
		"short": "2", "long": "3",
	}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echarts")

	w = get(r, signalPath("/charts", map[string]string{"market": "us", "stock": "Delisted Corp (NOPE)"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data")
}
