package envconfig

import (
	"strconv"
	"time"

	"restaurante/pkg/database"
)

// LoadDatabaseConfig loads database configuration from environment variables
func LoadDatabaseConfig() database.Config {
	config := database.DefaultConfig()

	config.Host = GetEnv("DB_HOST", config.Host)
	config.User = GetEnv("DB_USER", config.User)
	config.Password = GetEnv("DB_PASSWORD", config.Password)
	config.DBName = GetEnv("DB_NAME", config.DBName)
	config.SSLMode = GetEnv("DB_SSL_MODE", config.SSLMode)

	if port, err := strconv.Atoi(GetEnv("DB_PORT", "")); err == nil && port > 0 {
		config.Port = port
	}

	if n, err := strconv.Atoi(GetEnv("DB_MAX_OPEN_CONNS", "")); err == nil && n > 0 {
		config.Pool.MaxOpen = n
	}
	if n, err := strconv.Atoi(GetEnv("DB_MAX_IDLE_CONNS", "")); err == nil && n > 0 {
		config.Pool.MaxIdle = n
	}
	if d, err := time.ParseDuration(GetEnv("DB_CONN_MAX_LIFETIME", "")); err == nil {
		config.Pool.MaxLifetime = d
	}
	if d, err := time.ParseDuration(GetEnv("DB_CONN_MAX_IDLE_TIME", "")); err == nil {
		config.Pool.MaxIdleTime = d
	}

	return config
}
