package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_AddressValidation(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		expected string
	}{
		{"Port without colon", "9090", ":9090"},
		{"Port with colon", ":9090", ":9090"},
		{"Full address", "localhost:9090", "localhost:9090"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, validateAddress(tt.address))
		})
	}
}

func TestConfig_BaseURLValidation(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"URL without protocol", "example.com", "http://example.com"},
		{"URL with http", "http://example.com", "http://example.com"},
		{"URL with https", "https://example.com", "https://example.com"},
		{"URL with subdomain", "api.example.com", "http://api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, validateBaseURL(tt.url))
		})
	}
}

func TestIntFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		expected   int
		expectedOK bool
	}{
		{"Valid value", "42", 42, true},
		{"Unset variable", "", 0, false},
		{"Not a number", "abc", 0, false},
		{"Zero is rejected", "0", 0, false},
		{"Negative is rejected", "-5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_INT_VALUE", tt.value)
			}
			value, ok := intFromEnv("TEST_INT_VALUE")
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestDurationFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		expected   time.Duration
		expectedOK bool
	}{
		{"Minutes", "15m", 15 * time.Minute, true},
		{"Hours", "1h", time.Hour, true},
		{"Unset variable", "", 0, false},
		{"Not a duration", "fifteen", 0, false},
		{"Negative is rejected", "-1m", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_DURATION_VALUE", tt.value)
			}
			value, ok := durationFromEnv("TEST_DURATION_VALUE")
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestNewConfig_Integration(t *testing.T) {
	envVars := []string{
		"SERVER_ADDRESS", "GRPC_ADDRESS", "BASE_URL", "FILE_STORAGE_PATH",
		"DATABASE_DSN", "TRUSTED_SUBNET",
		"RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "SHORTEN_LIMIT_MAX", "SHORTEN_LIMIT_WINDOW",
	}
	for _, env := range envVars {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	tempDir := t.TempDir()
	filePath := tempDir + "/storage.json"
	t.Setenv("FILE_STORAGE_PATH", filePath)
	t.Setenv("SHORTEN_LIMIT_MAX", "25")
	t.Setenv("SHORTEN_LIMIT_WINDOW", "30m")

	cfg, err := NewConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "", cfg.GRPCAddr)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, filePath, cfg.FileStoragePath)
	assert.Equal(t, "", cfg.DatabaseDSN)
	assert.Equal(t, "", cfg.TrustedSubnet)

	// Значения по умолчанию и переопределения лимитов
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 25, cfg.ShortenLimitMax)
	assert.Equal(t, 30*time.Minute, cfg.ShortenLimitWindow)

	// Директория для файлового хранилища создаётся
	_, err = os.Stat(tempDir)
	assert.NoError(t, err, "Directory should be created")
}
