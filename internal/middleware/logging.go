package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// responseInfo накапливает статус и объём ответа для логирования
type responseInfo struct {
	http.ResponseWriter
	status int
	bytes  int
}

// WriteHeader запоминает код статуса
func (w *responseInfo) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write учитывает размер записанного тела
func (w *responseInfo) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// LoggingMiddleware логирует метод, путь, статус, размер и длительность каждого запроса
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &responseInfo{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(info, r)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("uri", r.RequestURI),
				zap.Int("status", info.status),
				zap.Int("size", info.bytes),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
