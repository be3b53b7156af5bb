package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tempizhere/tinylink/internal/models"
	"go.uber.org/zap"
)

// uniqueViolationCode — код ошибки PostgreSQL при нарушении уникального ограничения
const uniqueViolationCode = "23505"

// PostgresRepository реализует интерфейс Repository с использованием PostgreSQL
type PostgresRepository struct {
	db     Database
	logger *zap.Logger
}

// NewPostgresRepository создаёт новый экземпляр PostgresRepository
func NewPostgresRepository(db Database, logger *zap.Logger) (*PostgresRepository, error) {
	if db == nil {
		return nil, nil
	}
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Save сохраняет пару short ID — URL в базе данных.
// Уникальность short_id обеспечивает ограничение в таблице: проверка и вставка
// выполняются одной атомарной операцией
func (r *PostgresRepository) Save(shortID, originalURL string) (models.Mapping, error) {
	var m models.Mapping
	err := r.db.QueryRow(
		"INSERT INTO urls (short_id, original_url) VALUES ($1, $2) RETURNING id, short_id, original_url, created_at",
		shortID, originalURL,
	).Scan(&m.ID, &m.ShortID, &m.OriginalURL, &m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return models.Mapping{}, ErrShortIDExists
		}
		r.logger.Error("Failed to save URL to database", zap.String("short_id", shortID), zap.String("url", originalURL), zap.Error(err))
		return models.Mapping{}, err
	}
	return m, nil
}

// Get возвращает запись по короткому ID, если она существует
func (r *PostgresRepository) Get(shortID string) (models.Mapping, bool) {
	var m models.Mapping
	err := r.db.QueryRow(
		"SELECT id, short_id, original_url, created_at FROM urls WHERE short_id = $1",
		shortID,
	).Scan(&m.ID, &m.ShortID, &m.OriginalURL, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Mapping{}, false
	}
	if err != nil {
		r.logger.Error("Failed to get URL from database", zap.String("short_id", shortID), zap.Error(err))
		return models.Mapping{}, false
	}
	return m, true
}

// ListRecent возвращает последние записи, самые новые первыми
func (r *PostgresRepository) ListRecent(limit int) ([]models.Mapping, error) {
	rows, err := r.db.Query(
		"SELECT id, short_id, original_url, created_at FROM urls ORDER BY created_at DESC, id DESC LIMIT $1",
		limit,
	)
	if err != nil {
		r.logger.Error("Failed to list recent URLs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	mappings := make([]models.Mapping, 0, limit)
	for rows.Next() {
		var m models.Mapping
		if err := rows.Scan(&m.ID, &m.ShortID, &m.OriginalURL, &m.CreatedAt); err != nil {
			r.logger.Error("Failed to scan URL row", zap.Error(err))
			return nil, err
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate URL rows", zap.Error(err))
		return nil, err
	}
	return mappings, nil
}

// Count возвращает количество сохранённых записей
func (r *PostgresRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM urls").Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count URLs", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// Clear очищает все записи в таблице urls
func (r *PostgresRepository) Clear() {
	_, err := r.db.Exec("TRUNCATE TABLE urls RESTART IDENTITY")
	if err != nil {
		r.logger.Error("Failed to clear database", zap.Error(err))
	}
}
