package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Telegram TelegramConfig
}

type ServerConfig struct {
	Port         string `env:"SERVER_PORT" envDefault:"8080"`
	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
	AllowOrigins string `env:"ALLOW_ORIGINS" envDefault:"*"`
}

type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL" envDefault:"https://m4746.myxvest.ru/webapp"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`
}

type TelegramConfig struct {
	BotToken     string        `env:"TELEGRAM_BOT_TOKEN"`
	WebAppURL    string        `env:"TELEGRAM_WEBAPP_URL"`
	AdminIDs     []int64       `env:"ADMIN_IDS" envSeparator:","`
	AuthMaxAge   time.Duration `env:"AUTH_MAX_AGE" envDefault:"1h"`
	AuthDisabled bool          `env:"AUTH_DISABLED" envDefault:"false"`
	// DevUserID is the fallback identity used when auth is disabled, the
	// same way the Mini-App falls back to a fixed profile outside Telegram.
	DevUserID int64 `env:"DEV_USER_ID" envDefault:"7521806735"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// IsAdmin reports whether a Telegram user ID is on the admin allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Workflow timing and limits.
const (
	TonPollInterval      = 4 * time.Second
	TonRedirectDelay     = 3 * time.Second
	TonRedirectPath      = "/payment"
	SettingsRefreshEvery = 60 * time.Second
	LeaderboardCacheTTL  = 60 * time.Second
	LookupDebounce       = 500 * time.Millisecond
	NavigateAfterSuccess = 1 * time.Second
)
