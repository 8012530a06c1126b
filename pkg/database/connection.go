package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurante/pkg/logger"

	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

// PoolConfig tunes database/sql pooling. Zero values fall back to defaults.
type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

var defaultPool = PoolConfig{
	MaxOpen:     10,
	MaxIdle:     5,
	MaxLifetime: 5 * time.Minute,
	MaxIdleTime: 30 * time.Second,
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Pool     PoolConfig
}

func DefaultConfig() Config {
	return Config{
		Host:    "localhost",
		Port:    5432,
		User:    "postgres",
		DBName:  "restaurante",
		SSLMode: "disable",
		Pool:    defaultPool,
	}
}

// DSN builds a lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

func (p PoolConfig) apply(db *sql.DB) {
	db.SetMaxOpenConns(orDefault(p.MaxOpen, defaultPool.MaxOpen))
	db.SetMaxIdleConns(orDefault(p.MaxIdle, defaultPool.MaxIdle))
	db.SetConnMaxLifetime(orDefault(p.MaxLifetime, defaultPool.MaxLifetime))
	db.SetConnMaxIdleTime(orDefault(p.MaxIdleTime, defaultPool.MaxIdleTime))
}

// DB is a pooled Postgres handle shared by all repositories.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

func NewConnection(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	log = log.WithComponent("database")
	log.Info("Connecting to database",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
		"ssl_mode", cfg.SSLMode)

	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	cfg.Pool.apply(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database %s: %w", cfg.DBName, err)
	}

	log.Info("Database ready", "database", cfg.DBName)
	return &DB{DB: sqlDB, logger: log}, nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing database connection")
	return db.DB.Close()
}

// HealthCheck reports whether the database answers a trivial query.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	return nil
}

func (db *DB) LogStats() {
	s := db.Stats()
	db.logger.Info("Database pool stats",
		"open", s.OpenConnections,
		"in_use", s.InUse,
		"idle", s.Idle,
		"wait_count", s.WaitCount,
		"wait_duration", s.WaitDuration)
}

// ExecuteInTransaction commits when fn returns nil and rolls back on error
// or panic. A panic is re-raised after the rollback.
func (db *DB) ExecuteInTransaction(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			db.logger.Error("Transaction panicked, rolled back", "panic", p)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			db.logger.Warn("Transaction rolled back", "error", err)
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}()

	return fn(tx)
}
