package envconfig

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"restaurante/pkg/logger"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from path without overriding ones already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// GetEnv returns the value of key, or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// GetBool parses key as a boolean, returning fallback when unset or invalid.
func GetBool(key string, fallback bool) bool {
	v := GetEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func GetLogLevel() logger.LogLevel {
	switch strings.ToLower(GetEnv("LOG_LEVEL", "info")) {
	case "debug":
		return logger.LevelDebug
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// LoadLoggerConfig reads the LOG_* variables.
func LoadLoggerConfig() logger.Config {
	return logger.Config{
		Level:        GetLogLevel(),
		Format:       GetEnv("LOG_FORMAT", "json"),
		Output:       GetEnv("LOG_OUTPUT", "stdout"),
		EnableCaller: GetBool("LOG_ENABLE_CALLER", true),
		Environment:  GetEnv("ENVIRONMENT", "development"),
	}
}
