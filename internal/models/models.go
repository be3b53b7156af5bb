// Package models содержит модели данных сервиса сокращения URL.
package models

import "time"

// Mapping представляет сохранённую связь короткого ID с оригинальным URL
type Mapping struct {
	ID          int64     `json:"id" db:"id"`
	ShortID     string    `json:"shortId" db:"short_id"`
	OriginalURL string    `json:"originalUrl" db:"original_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// ShortenRequest представляет JSON-запрос на сокращение URL
type ShortenRequest struct {
	OriginalURL string `json:"originalUrl"`
}

// ShortenResponse представляет JSON-ответ с созданным коротким URL
type ShortenResponse struct {
	ShortURL    string `json:"shortUrl"`
	OriginalURL string `json:"originalUrl"`
}

// RecentURL представляет элемент списка последних сокращённых URL
type RecentURL struct {
	ID          int64     `json:"id"`
	ShortURL    string    `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ErrorResponse представляет JSON-ответ с сообщением об ошибке
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatsResponse представляет ответ внутренней статистики сервиса
type StatsResponse struct {
	URLs int `json:"urls"`
}
