// Package config отвечает за конфигурацию сервиса: флаги, переменные окружения и .env-файл.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит настройки приложения
type Config struct {
	RunAddr         string
	GRPCAddr        string
	BaseURL         string
	FileStoragePath string
	DatabaseDSN     string
	TrustedSubnet   string
	// Общее окно ограничения запросов для /api/* и редиректов
	RateLimitMax    int
	RateLimitWindow time.Duration
	// Более строгое окно для создания коротких URL
	ShortenLimitMax    int
	ShortenLimitWindow time.Duration
}

// NewConfig создаёт и возвращает новый объект Config: значения по умолчанию,
// затем флаги командной строки, затем переменные окружения (env имеет приоритет)
func NewConfig() (*Config, error) {
	// Подхватываем .env-файл, если он есть
	_ = godotenv.Load()

	cfg := &Config{
		RunAddr:            ":8080",
		GRPCAddr:           "",
		BaseURL:            "http://localhost:8080",
		FileStoragePath:    "internal/storage/storage.json",
		DatabaseDSN:        "",
		TrustedSubnet:      "",
		RateLimitMax:       100,
		RateLimitWindow:    15 * time.Minute,
		ShortenLimitMax:    10,
		ShortenLimitWindow: time.Hour,
	}

	// Регистрируем флаги
	flagRunAddr := flag.String("a", ":8080", "address and port to run HTTP server")
	flagGRPCAddr := flag.String("g", "", "address and port to run gRPC server (disabled when empty)")
	flagBaseURL := flag.String("b", "http://localhost:8080", "base URL for shortened links")
	flagFilePath := flag.String("f", "internal/storage/storage.json", "path to file for storing URLs")
	flagDatabaseDSN := flag.String("d", "", "database DSN for PostgreSQL")
	flagTrustedSubnet := flag.String("t", "", "trusted subnet in CIDR notation for internal stats")
	flag.Parse()

	// Проверяем переменные окружения
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.RunAddr = addr
	} else if *flagRunAddr != "" {
		cfg.RunAddr = *flagRunAddr
	}

	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		cfg.GRPCAddr = addr
	} else if *flagGRPCAddr != "" {
		cfg.GRPCAddr = *flagGRPCAddr
	}

	if url := os.Getenv("BASE_URL"); url != "" {
		cfg.BaseURL = url
	} else if *flagBaseURL != "" {
		cfg.BaseURL = *flagBaseURL
	}

	if path := os.Getenv("FILE_STORAGE_PATH"); path != "" {
		cfg.FileStoragePath = path
	} else if *flagFilePath != "" {
		cfg.FileStoragePath = *flagFilePath
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	} else if *flagDatabaseDSN != "" {
		cfg.DatabaseDSN = *flagDatabaseDSN
	}

	if subnet := os.Getenv("TRUSTED_SUBNET"); subnet != "" {
		cfg.TrustedSubnet = subnet
	} else if *flagTrustedSubnet != "" {
		cfg.TrustedSubnet = *flagTrustedSubnet
	}

	// Лимиты запросов настраиваются только через окружение
	if max, ok := intFromEnv("RATE_LIMIT_MAX"); ok {
		cfg.RateLimitMax = max
	}
	if window, ok := durationFromEnv("RATE_LIMIT_WINDOW"); ok {
		cfg.RateLimitWindow = window
	}
	if max, ok := intFromEnv("SHORTEN_LIMIT_MAX"); ok {
		cfg.ShortenLimitMax = max
	}
	if window, ok := durationFromEnv("SHORTEN_LIMIT_WINDOW"); ok {
		cfg.ShortenLimitWindow = window
	}

	// Валидация значений
	cfg.RunAddr = validateAddress(cfg.RunAddr)
	cfg.BaseURL = validateBaseURL(cfg.BaseURL)
	if cfg.FileStoragePath != "" {
		// Создаём директорию для файла, если она не существует
		dir := filepath.Dir(cfg.FileStoragePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// validateAddress добавляет двоеточие к адресу, если указан только порт
func validateAddress(addr string) string {
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

// validateBaseURL добавляет протокол к базовому URL, если он отсутствует
func validateBaseURL(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

// intFromEnv читает целочисленную переменную окружения
func intFromEnv(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// durationFromEnv читает переменную окружения в формате time.Duration
func durationFromEnv(name string) (time.Duration, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
