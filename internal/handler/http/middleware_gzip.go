package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// compressibleTypes lists the response content types gzip-encoded for clients
// that accept it.
var compressibleTypes = []string{"application/json", "text/plain"}

// withGZip compresses responses through chi's Compress middleware and
// transparently inflates gzip-encoded request bodies. Devices gzip large
// sync batches.
func withGZip(next http.Handler) http.Handler {
	return middleware.Compress(gzip.DefaultCompression, compressibleTypes...)(withGZipRequest(next))
}

func withGZipRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			http.Error(w, "invalid gzip body", http.StatusBadRequest)
			return
		}

		r.Body = gzipBody{Reader: zr, body: r.Body}
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1

		next.ServeHTTP(w, r)
	})
}

type gzipBody struct {
	*gzip.Reader
	body io.Closer
}

func (b gzipBody) Close() error {
	_ = b.Reader.Close()
	return b.body.Close()
}
