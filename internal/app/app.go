// Package app содержит HTTP-обработчики сервиса сокращения URL.
package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/tinylink/internal/models"
	"github.com/tempizhere/tinylink/internal/repository"
	"github.com/tempizhere/tinylink/internal/service"
	"go.uber.org/zap"
)

// notFoundPage отдаётся при переходе по несуществующему короткому URL
const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>URL Not Found</title>
  <style>
    body {
      font-family: system-ui, -apple-system, sans-serif;
      display: flex;
      flex-direction: column;
      align-items: center;
      justify-content: center;
      height: 100vh;
      margin: 0;
      background-color: #f9fafb;
      color: #1f2937;
    }
    .container {
      text-align: center;
      padding: 2rem;
      background-color: white;
      border-radius: 0.5rem;
      box-shadow: 0 4px 6px -1px rgba(0, 0, 0, 0.1), 0 2px 4px -1px rgba(0, 0, 0, 0.06);
      max-width: 24rem;
      width: 100%;
    }
    h1 { font-size: 1.5rem; font-weight: 600; margin-bottom: 1rem; }
    p { margin-bottom: 1.5rem; color: #4b5563; }
    a {
      display: inline-block;
      background-color: #2563eb;
      color: white;
      padding: 0.5rem 1rem;
      border-radius: 0.25rem;
      text-decoration: none;
      font-weight: 500;
    }
    a:hover { background-color: #1d4ed8; }
  </style>
</head>
<body>
  <div class="container">
    <h1>URL Not Found</h1>
    <p>The short URL you're trying to access doesn't exist or has been removed.</p>
    <a href="/">Back to Home</a>
  </div>
</body>
</html>
`

// App содержит хендлеры и зависимости
type App struct {
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewApp создаёт новое приложение
func NewApp(svc *service.Service, db repository.Database, logger *zap.Logger) *App {
	return &App{svc: svc, db: db, logger: logger}
}

// HandleShorten обрабатывает POST-запросы на "/api/shorten"
func (a *App) HandleShorten(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		a.writeJSONError(w, http.StatusBadRequest, "Content-Type must be application/json")
		return
	}

	var reqBody models.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		a.writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := a.svc.Shorten(reqBody.OriginalURL)
	if err != nil {
		if errors.Is(err, service.ErrEmptyURL) || errors.Is(err, service.ErrInvalidURL) {
			a.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Детали ошибки хранилища наружу не отдаём
		a.logger.Error("Failed to create short URL", zap.Error(err))
		a.writeJSONError(w, http.StatusInternalServerError, "Server error")
		return
	}

	a.writeJSONResponse(w, http.StatusCreated, result)
}

// HandleRecent обрабатывает GET-запросы на "/api/recent"
func (a *App) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	recent, err := a.svc.ListRecent()
	if err != nil {
		a.logger.Error("Failed to list recent URLs", zap.Error(err))
		a.writeJSONError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if recent == nil {
		recent = []models.RecentURL{}
	}

	a.writeJSONResponse(w, http.StatusOK, recent)
}

// HandleRedirect обрабатывает GET-запросы на "/{shortId}"
func (a *App) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	shortID := chi.URLParam(r, "shortId")
	if shortID == "" {
		http.Error(w, "Missing URL ID", http.StatusBadRequest)
		return
	}

	originalURL, exists := a.svc.Resolve(shortID)
	if !exists {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte(notFoundPage)); err != nil {
			a.logger.Error("Failed to write not found page", zap.Error(err))
		}
		return
	}

	w.Header().Set("Location", originalURL)
	w.WriteHeader(http.StatusFound)
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.db == nil {
		http.Error(w, "Database not configured", http.StatusInternalServerError)
		return
	}
	if err := a.db.Ping(); err != nil {
		http.Error(w, "Database connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := a.svc.Stats()
	if err != nil {
		a.logger.Error("Failed to get stats", zap.Error(err))
		a.writeJSONError(w, http.StatusInternalServerError, "Server error")
		return
	}

	a.writeJSONResponse(w, http.StatusOK, models.StatsResponse{URLs: count})
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(data); err != nil {
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
		return
	}
}

// writeJSONError пишет JSON-ответ с сообщением об ошибке
func (a *App) writeJSONError(w http.ResponseWriter, status int, message string) {
	a.writeJSONResponse(w, status, models.ErrorResponse{Error: message})
}
