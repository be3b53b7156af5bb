package repository

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tempizhere/tinylink/internal/models"
	"go.uber.org/zap"
)

// URLRecord представляет запись в JSON-файле
type URLRecord struct {
	ID          int64     `json:"id"`
	ShortID     string    `json:"short_id"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileRepository реализует интерфейс Repository с использованием файла.
// Записи дописываются в файл построчно и переживают перезапуск процесса
type FileRepository struct {
	mu       sync.RWMutex
	byID     map[string]int
	records  []models.Mapping
	nextID   int64
	filePath string
	logger   *zap.Logger
}

// NewFileRepository создаёт новый экземпляр FileRepository
func NewFileRepository(filePath string, logger *zap.Logger) (*FileRepository, error) {
	repo := &FileRepository{
		byID:     make(map[string]int),
		nextID:   1,
		filePath: filePath,
		logger:   logger,
	}

	// Создаём директорию, если не существует
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// Читаем существующий файл, если он есть
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Файл не существует, создадим пустой
			newFile, err := os.Create(filePath)
			if err != nil {
				return nil, err
			}
			newFile.Close()
			return repo, nil
		}
		return nil, err
	}
	defer file.Close()

	// Читаем файл построчно
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record URLRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			// Пропускаем некорректные строки и логируем это
			repo.logger.Warn("Skipping invalid JSON line", zap.String("line", string(scanner.Bytes())), zap.Error(err))
			continue
		}
		if _, exists := repo.byID[record.ShortID]; exists {
			continue
		}
		repo.byID[record.ShortID] = len(repo.records)
		repo.records = append(repo.records, models.Mapping{
			ID:          record.ID,
			ShortID:     record.ShortID,
			OriginalURL: record.OriginalURL,
			CreatedAt:   record.CreatedAt,
		})
		if record.ID >= repo.nextID {
			repo.nextID = record.ID + 1
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return repo, nil
}

// Save сохраняет пару short ID — URL в хранилище и дописывает запись в файл
func (r *FileRepository) Save(shortID, originalURL string) (models.Mapping, error) {
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

	record := URLRecord{
		ID:          m.ID,
		ShortID:     m.ShortID,
		OriginalURL: m.OriginalURL,
		CreatedAt:   m.CreatedAt,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return models.Mapping{}, err
	}
	data = append(data, '\n')

	// Дописываем в файл до изменения состояния в памяти
	file, err := os.OpenFile(r.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return models.Mapping{}, err
	}
	defer file.Close()

	if _, err = file.Write(data); err != nil {
		return models.Mapping{}, err
	}

	r.nextID++
	r.byID[shortID] = len(r.records)
	r.records = append(r.records, m)
	return m, nil
}

// Get возвращает запись по короткому ID, если она существует
func (r *FileRepository) Get(shortID string) (models.Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, exists := r.byID[shortID]
	if !exists {
		return models.Mapping{}, false
	}
	return r.records[idx], true
}

// ListRecent возвращает последние записи, самые новые первыми
func (r *FileRepository) ListRecent(limit int) ([]models.Mapping, error) {
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
func (r *FileRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records), nil
}

// Clear очищает хранилище и файл
func (r *FileRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[string]int)
	r.records = nil
	r.nextID = 1
	if err := os.Truncate(r.filePath, 0); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("Failed to truncate storage file", zap.String("path", r.filePath), zap.Error(err))
	}
}
