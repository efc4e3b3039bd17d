package config_test

import (
	"testing"
	"time"

	"github.com/sangkips/retail-ledger/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("LEDGER_LOCK_TIMEOUT_MS", "250")
	t.Setenv("LEDGER_TX_MAX_ATTEMPTS", "5")
	t.Setenv("JWT_EXPIRY_HOURS", "2")

	cfg := config.Load()

	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.LockTimeout)
	assert.Equal(t, 5, cfg.Ledger.MaxAttempts)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, "retail-ledger", cfg.App.Name)
}
