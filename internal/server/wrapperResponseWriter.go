package server

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
)

// WrapResponseWriter buffers the response so caching headers can be decided
// once the status is known: only 2xx responses are marked cacheable.
func WrapResponseWriter(cacheControl string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := NewWrapperResponseWriter(w, cacheControl)
			next.ServeHTTP(ww, r)
			_, _ = ww.Flush(r.Header.Get("If-None-Match"))
		})
	}
}

type wrapperResponseWriter struct {
	http.ResponseWriter
	buf          *bytes.Buffer
	statusCode   int
	cacheControl string
}

func NewWrapperResponseWriter(w http.ResponseWriter, cacheControl string) *wrapperResponseWriter {
	return &wrapperResponseWriter{w, new(bytes.Buffer), http.StatusOK, cacheControl}
}

func (w *wrapperResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

// WriteHeader is deferred until Flush so headers can still change.
func (w *wrapperResponseWriter) WriteHeader(code int) {
	w.statusCode = code
}

func (w *wrapperResponseWriter) Flush(ifNoneMatch string) (int64, error) {
	if 200 <= w.statusCode && w.statusCode < 300 {
		w.Header().Set("Cache-Control", w.cacheControl)

		etag := fmt.Sprintf("\"%x\"", md5.Sum(w.buf.Bytes()))
		w.Header().Set("ETag", etag)
		if ifNoneMatch == etag {
			w.statusCode = http.StatusNotModified
			w.buf.Reset()
		}
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}

	w.ResponseWriter.WriteHeader(w.statusCode)
	return w.buf.WriteTo(w.ResponseWriter)
}
