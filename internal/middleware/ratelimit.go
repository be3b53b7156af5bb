package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/tempizhere/tinylink/internal/models"
)

// windowCounter хранит количество запросов клиента в текущем окне
type windowCounter struct {
	count   int
	resetAt time.Time
}

// RateLimiter ограничивает количество запросов с одного IP в фиксированном окне.
// Для нескольких экземпляров сервиса потребовался бы общий счётчик,
// здесь ограничение действует в рамках одного процесса
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	message   string
	clients   map[string]*windowCounter
	nextSweep time.Time
}

// NewRateLimiter создаёт новый RateLimiter с заданным лимитом, окном и сообщением об отказе
func NewRateLimiter(limit int, window time.Duration, message string) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		window:    window,
		message:   message,
		clients:   make(map[string]*windowCounter),
		nextSweep: time.Now().Add(window),
	}
}

// Allow регистрирует запрос клиента и сообщает, укладывается ли он в лимит.
// Вторым значением возвращается время до сброса окна
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Раз в окно выбрасываем истёкшие счётчики, иначе ключи разовых
	// клиентов копятся до конца работы процесса
	if now.After(rl.nextSweep) {
		for k, c := range rl.clients {
			if now.After(c.resetAt) {
				delete(rl.clients, k)
			}
		}
		rl.nextSweep = now.Add(rl.window)
	}

	c, exists := rl.clients[key]
	if !exists || now.After(c.resetAt) {
		rl.clients[key] = &windowCounter{count: 1, resetAt: now.Add(rl.window)}
		return true, rl.window
	}

	if c.count >= rl.limit {
		return false, time.Until(c.resetAt)
	}
	c.count++
	return true, time.Until(c.resetAt)
}

// Middleware оборачивает обработчик проверкой лимита запросов
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := rl.Allow(clientIP(r))
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			w.WriteHeader(http.StatusTooManyRequests)
			data, err := json.Marshal(models.ErrorResponse{Error: rl.message})
			if err != nil {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP определяет IP клиента из заголовка X-Real-IP или адреса соединения
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
