// Package proto содержит определения типов для gRPC сервиса сокращения URL
package proto

// ShortenRequest представляет запрос на сокращение URL
type ShortenRequest struct {
	OriginalURL string `json:"original_url"`
}

// ShortenResponse представляет ответ с созданным коротким URL
type ShortenResponse struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
}

// ResolveRequest представляет запрос на получение оригинального URL
type ResolveRequest struct {
	ShortID string `json:"short_id"`
}

// ResolveResponse представляет ответ с оригинальным URL
type ResolveResponse struct {
	OriginalURL string `json:"original_url"`
	Found       bool   `json:"found"`
}

// RecentURL представляет элемент списка последних сокращённых URL
type RecentURL struct {
	ID          int64  `json:"id"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	CreatedAt   string `json:"created_at"`
}

// ListRecentRequest представляет запрос списка последних URL
type ListRecentRequest struct{}

// ListRecentResponse представляет ответ со списком последних URL
type ListRecentResponse struct {
	Urls []*RecentURL `json:"urls"`
}

// PingRequest представляет запрос проверки состояния
type PingRequest struct{}

// PingResponse представляет ответ проверки состояния
type PingResponse struct {
	DatabaseAvailable bool `json:"database_available"`
}

// GetStatsRequest представляет запрос статистики
type GetStatsRequest struct{}

// GetStatsResponse представляет ответ со статистикой
type GetStatsResponse struct {
	UrlsCount int32 `json:"urls_count"`
}
