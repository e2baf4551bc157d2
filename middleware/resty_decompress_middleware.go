package middleware

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
)

var gzipMagic = []byte{0x1f, 0x8b}

// DecompressMiddleware inflates bodies of requests that set Accept-Encoding
// by hand, which disables the transport's transparent gzip handling.
func DecompressMiddleware(c *resty.Client, resp *resty.Response) error {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header().Get("Content-Encoding")))
	if encoding == "" || encoding == "identity" {
		return nil
	}

	var reader io.ReadCloser
	var err error

	body := bytes.NewReader(resp.Body())
	switch encoding {
	case "br":
		reader = io.NopCloser(brotli.NewReader(body))
	case "gzip":
		// resty already inflates gzip bodies itself
		if !bytes.HasPrefix(resp.Body(), gzipMagic) {
			return nil
		}
		reader, err = gzip.NewReader(body)
		if err != nil {
			return err
		}
	case "deflate":
		reader = flate.NewReader(body)
	default:
		return nil
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	resp.SetBody(decompressed)
	return nil
}
