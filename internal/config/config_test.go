package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("RosterTimeout converts seconds to duration", func(t *testing.T) {
		cfg := &Config{RosterTimeoutSeconds: 15}
		assert.Equal(t, 15*time.Second, cfg.RosterTimeout())
	})
}

func TestLoad(t *testing.T) {
	vars := []string{
		"PORT", "DATA_DIR", "ROSTER_BASE_URL", "ROSTER_TIMEOUT_SECONDS",
		"WEBHOOK_SIGNATURE_SECRET", "ADMIN_TOKEN", "LOG_LEVEL",
		"COOLDOWN_HOURS", "BREAKUP_BLOCK_HOURS", "MAX_DAILY_BREAKUPS",
		"MAX_DAILY_WISHES", "MAX_DAILY_ROBS", "MAX_DAILY_LOCKS",
		"DISPLAY_NAME_MAX_LENGTH",
	}
	originalEnv := map[string]string{}
	for _, k := range vars {
		originalEnv[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads config with defaults", func(t *testing.T) {
		os.Setenv("ROSTER_BASE_URL", "http://localhost:3000")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "data", cfg.DataDir)
		assert.Equal(t, "http://localhost:3000", cfg.RosterBaseURL)
		assert.Equal(t, 10, cfg.RosterTimeoutSeconds)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 48, cfg.CooldownHours)
		assert.Equal(t, 24, cfg.BreakupBlockHours)
		assert.Equal(t, 3, cfg.MaxDailyBreakups)
		assert.Equal(t, 1, cfg.MaxDailyWishes)
		assert.Equal(t, 2, cfg.MaxDailyRobs)
		assert.Equal(t, 1, cfg.MaxDailyLocks)
		assert.Equal(t, 10, cfg.DisplayNameMaxLen)
	})

	t.Run("loads custom values", func(t *testing.T) {
		os.Setenv("ROSTER_BASE_URL", "http://napcat:3000")
		os.Setenv("PORT", "9090")
		os.Setenv("COOLDOWN_HOURS", "12")
		os.Setenv("MAX_DAILY_BREAKUPS", "5")
		os.Setenv("LOG_LEVEL", "debug")
		defer func() {
			os.Unsetenv("PORT")
			os.Unsetenv("COOLDOWN_HOURS")
			os.Unsetenv("MAX_DAILY_BREAKUPS")
			os.Unsetenv("LOG_LEVEL")
		}()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "http://napcat:3000", cfg.RosterBaseURL)
		assert.Equal(t, 12, cfg.CooldownHours)
		assert.Equal(t, 5, cfg.MaxDailyBreakups)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("fails without roster base url", func(t *testing.T) {
		os.Unsetenv("ROSTER_BASE_URL")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			CooldownHours:     48,
			BreakupBlockHours: 24,
			MaxDailyBreakups:  3,
		}
	}

	t.Run("accepts sane settings", func(t *testing.T) {
		assert.NoError(t, base().Validate(false))
	})

	t.Run("rejects cooldown out of range", func(t *testing.T) {
		cfg := base()
		cfg.CooldownHours = 0
		assert.Error(t, cfg.Validate(false))

		cfg.CooldownHours = 721
		assert.Error(t, cfg.Validate(false))
	})

	t.Run("rejects non-positive block hours", func(t *testing.T) {
		cfg := base()
		cfg.BreakupBlockHours = 0
		assert.Error(t, cfg.Validate(false))
	})

	t.Run("rejects non-positive breakup budget", func(t *testing.T) {
		cfg := base()
		cfg.MaxDailyBreakups = 0
		assert.Error(t, cfg.Validate(false))
	})

	t.Run("production with empty secrets only warns", func(t *testing.T) {
		assert.NoError(t, base().Validate(true))
	})
}
