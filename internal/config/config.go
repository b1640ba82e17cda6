package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                   int    `env:"PORT" envDefault:"8080"`
	DataDir                string `env:"DATA_DIR" envDefault:"data"`
	RosterBaseURL          string `env:"ROSTER_BASE_URL,required"`
	RosterTimeoutSeconds   int    `env:"ROSTER_TIMEOUT_SECONDS" envDefault:"10"`
	WebhookSignatureSecret string `env:"WEBHOOK_SIGNATURE_SECRET"`
	AdminToken             string `env:"ADMIN_TOKEN"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`

	CooldownHours     int `env:"COOLDOWN_HOURS" envDefault:"48"`
	BreakupBlockHours int `env:"BREAKUP_BLOCK_HOURS" envDefault:"24"`
	MaxDailyBreakups  int `env:"MAX_DAILY_BREAKUPS" envDefault:"3"`
	MaxDailyWishes    int `env:"MAX_DAILY_WISHES" envDefault:"1"`
	MaxDailyRobs      int `env:"MAX_DAILY_ROBS" envDefault:"2"`
	MaxDailyLocks     int `env:"MAX_DAILY_LOCKS" envDefault:"1"`
	DisplayNameMaxLen int `env:"DISPLAY_NAME_MAX_LENGTH" envDefault:"10"`
}

func (c *Config) RosterTimeout() time.Duration {
	return time.Duration(c.RosterTimeoutSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.CooldownHours < 1 || c.CooldownHours > 720 {
		return fmt.Errorf("COOLDOWN_HOURS must be between 1 and 720")
	}
	if c.BreakupBlockHours < 1 {
		return fmt.Errorf("BREAKUP_BLOCK_HOURS must be positive")
	}
	if c.MaxDailyBreakups < 1 {
		return fmt.Errorf("MAX_DAILY_BREAKUPS must be positive")
	}

	if isProduction {
		if c.WebhookSignatureSecret == "" {
			log.Warn().Msg("WEBHOOK_SIGNATURE_SECRET is empty in production: webhook signature verification disabled")
		}
		if c.AdminToken == "" {
			log.Warn().Msg("ADMIN_TOKEN is empty in production: admin commands are unreachable")
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
