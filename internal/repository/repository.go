// Package repository содержит хранилища соответствий коротких ID и оригинальных URL.
package repository

import (
	"database/sql"
	"errors"

	"github.com/tempizhere/tinylink/internal/models"
)

// ErrShortIDExists возвращается при попытке сохранить уже занятый короткий ID
var ErrShortIDExists = errors.New("short ID already exists")

// Repository определяет интерфейс для работы с хранилищем URL
type Repository interface {
	// Save сохраняет пару short ID — URL и возвращает созданную запись.
	// При занятом short ID возвращает ErrShortIDExists
	Save(shortID, originalURL string) (models.Mapping, error)
	// Get возвращает запись по короткому ID и флаг существования
	Get(shortID string) (models.Mapping, bool)
	// ListRecent возвращает последние записи, самые новые первыми
	ListRecent(limit int) ([]models.Mapping, error)
	// Count возвращает количество сохранённых записей
	Count() (int, error)
	// Clear очищает все данные в хранилище
	Clear()
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// Ping проверяет соединение с базой данных
	Ping() error
	// Close закрывает соединение с базой данных
	Close() error
	// Exec выполняет SQL-команду без возврата результатов
	Exec(query string, args ...interface{}) (sql.Result, error)
	// Query выполняет SQL-запрос и возвращает результаты
	Query(query string, args ...interface{}) (*sql.Rows, error)
	// QueryRow выполняет SQL-запрос и возвращает одну строку результата
	QueryRow(query string, args ...interface{}) *sql.Row
	// Begin начинает новую транзакцию
	Begin() (*sql.Tx, error)
}
