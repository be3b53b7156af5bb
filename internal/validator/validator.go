// Package validator проверяет пригодность строки для сокращения.
package validator

import (
	"net/url"
	"strings"
)

// IsValid проверяет, что строка является корректным URL для сокращения.
// Строка без схемы проверяется так, как если бы перед ней стояло "https://",
// но на хранение уходит исходное значение, а не дополненное
func IsValid(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	if strings.ContainsAny(candidate, " \t\n") {
		return false
	}

	// Дополняем схему перед разбором
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}
	// Хост должен содержать точку либо быть localhost
	if !strings.Contains(host, ".") && host != "localhost" {
		return false
	}
	return true
}
