// Package config reads process configuration from environment variables.
//
// Malformed values never abort startup: the getters log a warning and fall
// back to the supplied default.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the variable's value, or defaultValue when it is
// unset or blank.
func GetEnvString(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt parses the variable as a base-10 integer.
//
//	maxOpen := GetEnvInt("DB_MAX_OPEN_CONNS", 25)
func GetEnvInt(key string, defaultValue int) int {
	raw := GetEnvString(key, "")
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		warnInvalid(key, raw, strconv.Itoa(defaultValue), err)
		return defaultValue
	}
	return value
}

// GetEnvDuration parses the variable with time.ParseDuration.
//
//	timeout := GetEnvDuration("NOTIFY_WEBHOOK_TIMEOUT", 5*time.Second)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := GetEnvString(key, "")
	if raw == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		warnInvalid(key, raw, defaultValue.String(), err)
		return defaultValue
	}
	return value
}

func warnInvalid(key, value, fallback string, err error) {
	slog.Warn("invalid environment variable, using default",
		slog.String("key", key),
		slog.String("value", value),
		slog.String("default", fallback),
		slog.String("error", err.Error()))
}
