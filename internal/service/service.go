// Package service содержит бизнес-логику сокращения и разрешения URL.
package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/tempizhere/tinylink/internal/models"
	"github.com/tempizhere/tinylink/internal/repository"
	"github.com/tempizhere/tinylink/internal/validator"
)

var (
	// ErrEmptyURL возвращается, если URL для сокращения не передан
	ErrEmptyURL = errors.New("URL is required")
	// ErrInvalidURL возвращается, если переданная строка не является корректным URL
	ErrInvalidURL = errors.New("Invalid URL format")
	// ErrUniqueIDFailed возвращается, если не удалось подобрать свободный короткий ID
	ErrUniqueIDFailed = errors.New("failed to generate unique ID")
)

const (
	// shortIDLength — длина генерируемого короткого ID
	shortIDLength = 7
	// maxGenerateAttempts ограничивает количество повторных генераций при коллизии
	maxGenerateAttempts = 5
	// recentLimit — максимальный размер списка последних URL
	recentLimit = 10
)

// Service реализует логику работы с короткими URL
type Service struct {
	repo    repository.Repository
	baseURL string
}

// NewService создаёт новый экземпляр Service
func NewService(repo repository.Repository, baseURL string) *Service {
	return &Service{
		repo:    repo,
		baseURL: baseURL,
	}
}

// GenerateShortID генерирует короткий ID из URL-безопасного алфавита
func (s *Service) GenerateShortID() (string, error) {
	bytes := make([]byte, 8)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	encoded := base64.URLEncoding.EncodeToString(bytes)
	return encoded[:shortIDLength], nil
}

// Shorten валидирует URL, генерирует короткий ID и сохраняет соответствие.
// При коллизии ID повторяет генерацию ограниченное число раз
func (s *Service) Shorten(originalURL string) (models.ShortenResponse, error) {
	if originalURL == "" {
		return models.ShortenResponse{}, ErrEmptyURL
	}
	if !validator.IsValid(originalURL) {
		return models.ShortenResponse{}, ErrInvalidURL
	}

	for i := 0; i < maxGenerateAttempts; i++ {
		shortID, err := s.GenerateShortID()
		if err != nil {
			return models.ShortenResponse{}, err
		}
		m, err := s.repo.Save(shortID, originalURL)
		if err == nil {
			return models.ShortenResponse{
				ShortURL:    s.ComposeShortURL(m.ShortID),
				OriginalURL: m.OriginalURL,
			}, nil
		}
		if errors.Is(err, repository.ErrShortIDExists) {
			continue
		}
		return models.ShortenResponse{}, err
	}
	return models.ShortenResponse{}, ErrUniqueIDFailed
}

// Resolve возвращает оригинальный URL по короткому ID
func (s *Service) Resolve(shortID string) (string, bool) {
	m, exists := s.repo.Get(shortID)
	if !exists {
		return "", false
	}
	return m.OriginalURL, true
}

// ListRecent возвращает последние сокращённые URL, самые новые первыми
func (s *Service) ListRecent() ([]models.RecentURL, error) {
	mappings, err := s.repo.ListRecent(recentLimit)
	if err != nil {
		return nil, err
	}
	recent := make([]models.RecentURL, len(mappings))
	for i, m := range mappings {
		recent[i] = models.RecentURL{
			ID:          m.ID,
			ShortURL:    s.ComposeShortURL(m.ShortID),
			OriginalURL: m.OriginalURL,
			CreatedAt:   m.CreatedAt,
		}
	}
	return recent, nil
}

// Stats возвращает количество сохранённых URL
func (s *Service) Stats() (int, error) {
	return s.repo.Count()
}

// ComposeShortURL собирает полный короткий URL из базового адреса и ID
func (s *Service) ComposeShortURL(shortID string) string {
	return strings.TrimRight(s.baseURL, "/") + "/" + shortID
}

// GetBaseURL возвращает базовый адрес сервиса
func (s *Service) GetBaseURL() string {
	return s.baseURL
}
