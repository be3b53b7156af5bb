package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tempizhere/tinylink/internal/app"
	"github.com/tempizhere/tinylink/internal/config"
	"github.com/tempizhere/tinylink/internal/models"
	"github.com/tempizhere/tinylink/internal/repository"
	"github.com/tempizhere/tinylink/internal/service"
	"go.uber.org/zap"
)

// newTestServer собирает полный стек приложения с in-memory хранилищем
func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	repo := repository.NewMemoryRepository()
	svc := service.NewService(repo, cfg.BaseURL)
	appInstance := app.NewApp(svc, nil, zap.NewNop())
	router := buildRouter(appInstance, cfg, zap.NewNop())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func defaultTestConfig() *config.Config {
	return &config.Config{
		RunAddr:            ":8080",
		BaseURL:            "http://localhost:8080",
		RateLimitMax:       100,
		RateLimitWindow:    15 * time.Minute,
		ShortenLimitMax:    10,
		ShortenLimitWindow: time.Hour,
	}
}

func shortenURL(t *testing.T, srv *httptest.Server, originalURL string) *http.Response {
	t.Helper()

	body := `{"originalUrl":"` + originalURL + `"}`
	resp, err := http.Post(srv.URL+"/api/shorten", "application/json", strings.NewReader(body))
	assert.NoError(t, err)
	return resp
}

func TestRouter_ShortenAndRedirect(t *testing.T) {
	srv := newTestServer(t, defaultTestConfig())

	// Создаём короткий URL
	resp := shortenURL(t, srv, "https://example.com/long/path")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var shortenResp models.ShortenResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&shortenResp))
	shortID := strings.TrimPrefix(shortenResp.ShortURL, "http://localhost:8080/")
	assert.Len(t, shortID, 7)

	// Переходим по короткому URL без следования редиректу
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	redirectResp, err := client.Get(srv.URL + "/" + shortID)
	assert.NoError(t, err)
	defer redirectResp.Body.Close()

	assert.Equal(t, http.StatusFound, redirectResp.StatusCode)
	assert.Equal(t, "https://example.com/long/path", redirectResp.Header.Get("Location"))
}

func TestRouter_RedirectNotFound(t *testing.T) {
	srv := newTestServer(t, defaultTestConfig())

	resp, err := http.Get(srv.URL + "/abcdefg")
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestRouter_RecentAfterShorten(t *testing.T) {
	srv := newTestServer(t, defaultTestConfig())

	resp := shortenURL(t, srv, "https://example.com/first")
	resp.Body.Close()
	resp = shortenURL(t, srv, "https://example.com/second")
	resp.Body.Close()

	recentResp, err := http.Get(srv.URL + "/api/recent")
	assert.NoError(t, err)
	defer recentResp.Body.Close()

	assert.Equal(t, http.StatusOK, recentResp.StatusCode)

	var recent []models.RecentURL
	assert.NoError(t, json.NewDecoder(recentResp.Body).Decode(&recent))
	assert.Len(t, recent, 2)
	assert.Equal(t, "https://example.com/second", recent[0].OriginalURL)
	assert.Equal(t, "https://example.com/first", recent[1].OriginalURL)
}

func TestRouter_RecentGzipResponse(t *testing.T) {
	srv := newTestServer(t, defaultTestConfig())

	// Достаточно длинных URL, чтобы ответ превысил порог сжатия
	for i := 0; i < 10; i++ {
		resp := shortenURL(t, srv, fmt.Sprintf("https://example.com/long/path/%02d/%s", i, strings.Repeat("x", 80)))
		resp.Body.Close()
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/recent", nil)
	assert.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultTransport.RoundTrip(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	// Сжатое тело распаковывается в валидный JSON-список
	gr, err := gzip.NewReader(resp.Body)
	assert.NoError(t, err)
	defer gr.Close()

	var recent []models.RecentURL
	assert.NoError(t, json.NewDecoder(gr).Decode(&recent))
	assert.Len(t, recent, 10)
}

func TestRouter_ShortenRateLimit(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.ShortenLimitMax = 1
	srv := newTestServer(t, cfg)

	resp := shortenURL(t, srv, "https://example.com/first")
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Второй запрос превышает строгий лимит на сокращение
	resp = shortenURL(t, srv, "https://example.com/second")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	var errResp models.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, shortenLimitMessage, errResp.Error)

	// Остальные маршруты под строгий лимит не попадают
	recentResp, err := http.Get(srv.URL + "/api/recent")
	assert.NoError(t, err)
	recentResp.Body.Close()
	assert.Equal(t, http.StatusOK, recentResp.StatusCode)
}

func TestRouter_APIRateLimit(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.RateLimitMax = 2
	srv := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/api/recent")
		assert.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/recent")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var errResp models.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, apiLimitMessage, errResp.Error)
}

func TestRouter_PingOutsideRateLimit(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.RateLimitMax = 1
	srv := newTestServer(t, cfg)

	resp, err := http.Get(srv.URL + "/api/recent")
	assert.NoError(t, err)
	resp.Body.Close()

	// Без базы данных ping отвечает ошибкой, но лимит на него не действует
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/ping")
		assert.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
}

func TestRouter_StatsRequiresTrustedSubnet(t *testing.T) {
	t.Run("Denied without trusted subnet", func(t *testing.T) {
		srv := newTestServer(t, defaultTestConfig())

		resp, err := http.Get(srv.URL + "/api/internal/stats")
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Allowed from trusted subnet", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.TrustedSubnet = "192.168.1.0/24"
		srv := newTestServer(t, cfg)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/internal/stats", nil)
		assert.NoError(t, err)
		req.Header.Set("X-Real-IP", "192.168.1.50")

		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var stats models.StatsResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.Equal(t, 0, stats.URLs)
	})
}
