package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// gzipMinSize — минимальный размер ответа, начиная с которого применяется сжатие
const gzipMinSize = 1400

// GzipMiddleware обрабатывает Gzip-сжатие для запросов и ответов
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Обработка сжатого запроса
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			defer gz.Close()
			r.Body = io.NopCloser(gz)
		}

		// Проверка, поддерживает ли клиент сжатие ответа
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()

		next.ServeHTTP(gw, r)
	})
}

// gzipResponseWriter откладывает отправку статуса до первого Write:
// Content-Encoding должен попасть в заголовки до того, как net/http их зафиксирует
type gzipResponseWriter struct {
	http.ResponseWriter
	gz         *gzip.Writer
	status     int
	headerSent bool
	decided    bool
}

// WriteHeader запоминает статус, не отправляя его
func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if !w.headerSent {
		w.status = statusCode
	}
}

// Write принимает решение о сжатии по первому фрагменту ответа
func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.decided = true

		// Сжимаем только JSON и HTML, короткие ответы сжимать невыгодно
		contentType := w.Header().Get("Content-Type")
		compressible := strings.HasPrefix(contentType, "application/json") || strings.HasPrefix(contentType, "text/html")
		if compressible && len(b) >= gzipMinSize {
			w.Header().Set("Content-Encoding", "gzip")
			w.gz = gzip.NewWriter(w.ResponseWriter)
		}
		w.sendHeader()
	}

	if w.gz != nil {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// sendHeader отправляет отложенный статус
func (w *gzipResponseWriter) sendHeader() {
	if w.headerSent {
		return
	}
	w.headerSent = true
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(w.status)
}

// Close отправляет отложенный статус и закрывает gzip.Writer
func (w *gzipResponseWriter) Close() error {
	w.sendHeader()
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}
