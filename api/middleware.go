package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// DecompressRequest inflates gzip-encoded control payloads so handlers see
// plain JSON. Requests claiming gzip with an invalid body get a 400.
func DecompressRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !claimsGzip(req.Header.Get(echo.HeaderContentEncoding)) {
				return next(c)
			}

			plain, err := inflate(req.Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid gzip body")
			}
			req.Body = plain
			req.ContentLength = -1
			req.Header.Del(echo.HeaderContentEncoding)
			req.Header.Del(echo.HeaderContentLength)

			return next(c)
		}
	}
}

// claimsGzip reports whether a Content-Encoding header value lists gzip,
// possibly among other codings.
func claimsGzip(header string) bool {
	for _, enc := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(enc), "gzip") {
			return true
		}
	}
	return false
}

// inflate wraps the raw body in a gzip reader whose Close also closes the
// underlying body. The raw body is closed on a bad stream so the connection
// is not leaked.
func inflate(body io.ReadCloser) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(body)
	if err != nil {
		_ = body.Close()
		return nil, err
	}
	return &inflatedBody{gr: gr, raw: body}, nil
}

type inflatedBody struct {
	gr  *gzip.Reader
	raw io.Closer
}

func (b *inflatedBody) Read(p []byte) (int, error) { return b.gr.Read(p) }

func (b *inflatedBody) Close() error {
	err := b.gr.Close()
	if cerr := b.raw.Close(); err == nil {
		err = cerr
	}
	return err
}
