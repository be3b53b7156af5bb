package repository

import (
	"sync"
	"time"

	"github.com/tempizhere/tinylink/internal/models"
)

// MemoryRepository реализует интерфейс Repository с использованием map.
// Используется в тестах и как основа для FileRepository
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]int
	records []models.Mapping
	nextID  int64
}

// NewMemoryRepository создаёт новый экземпляр MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]int),
		nextID: 1,
	}
}

// Save сохраняет пару short ID — URL в хранилище
func (r *MemoryRepository) Save(shortID, originalURL string) (models.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[shortID]; exists {
		return models.Mapping{}, ErrShortIDExists
	}

	m := models.Mapping{
		ID:          r.nextID,
		ShortID:     shortID,
		OriginalURL: originalURL,
		CreatedAt:   time.Now(),
	}
	r.nextID++
	r.byID[shortID] = len(r.records)
	r.records = append(r.records, m)
	return m, nil
}

// Get возвращает запись по короткому ID, если она существует
func (r *MemoryRepository) Get(shortID string) (models.Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, exists := r.byID[shortID]
	if !exists {
		return models.Mapping{}, false
	}
	return r.records[idx], true
}

// ListRecent возвращает последние записи, самые новые первыми
func (r *MemoryRepository) ListRecent(limit int) ([]models.Mapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit > len(r.records) {
		limit = len(r.records)
	}
	mappings := make([]models.Mapping, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(mappings) < limit; i-- {
		mappings = append(mappings, r.records[i])
	}
	return mappings, nil
}

// Count возвращает количество сохранённых записей
func (r *MemoryRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records), nil
}

// Clear очищает хранилище
func (r *MemoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[string]int)
	r.records = nil
	r.nextID = 1
}
