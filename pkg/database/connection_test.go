package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Password = "secret"

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=restaurante sslmode=disable",
		cfg.DSN())
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 10, orDefault(0, 10))
	assert.Equal(t, 10, orDefault(-1, 10))
	assert.Equal(t, 3, orDefault(3, 10))
	assert.Equal(t, time.Minute, orDefault(time.Duration(0), time.Minute))
	assert.Equal(t, time.Second, orDefault(time.Second, time.Minute))
}

func TestDefaultConfigPool(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.Pool.MaxOpen)
	assert.Equal(t, 5, cfg.Pool.MaxIdle)
	assert.Equal(t, 5*time.Minute, cfg.Pool.MaxLifetime)
}
