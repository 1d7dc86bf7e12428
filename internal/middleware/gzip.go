package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// gzipMinSize задаёт минимальный размер тела ответа для сжатия.
// Короткие ответы (редиректы, ошибки) сжимать невыгодно.
const gzipMinSize = 1400

// GzipMiddleware распаковывает сжатые тела запросов и сжимает ответы,
// если клиент прислал Accept-Encoding: gzip
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			defer gz.Close()
			r.Body = io.NopCloser(gz)
		}

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()

		next.ServeHTTP(gw, r)
	})
}

// compressibleContentType определяет, имеет ли смысл сжимать ответ данного типа
func compressibleContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json") ||
		strings.HasPrefix(contentType, "text/html")
}

// gzipResponseWriter оборачивает http.ResponseWriter и включает сжатие
// лениво, на первой записи достаточно большого сжимаемого тела
type gzipResponseWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	decided bool
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	// Решение о сжатии принимается один раз, по первой записи
	if !w.decided {
		w.decided = true
		if compressibleContentType(w.Header().Get("Content-Type")) && len(b) >= gzipMinSize {
			w.Header().Set("Content-Encoding", "gzip")
			w.gz = gzip.NewWriter(w.ResponseWriter)
		}
	}
	if w.gz == nil {
		return w.ResponseWriter.Write(b)
	}
	return w.gz.Write(b)
}

// Close завершает поток сжатия, если он был открыт
func (w *gzipResponseWriter) Close() error {
	if w.gz == nil {
		return nil
	}
	return w.gz.Close()
}
