// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type AdminConfig struct {
	Port       int           `yaml:"port"`
	Password   string        `yaml:"password"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // session/funnel state lifetime
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"` // HS256 secret for visitor identity tokens
}

type PaymentConfig struct {
	Provider   string `yaml:"provider"` // coinpay|noop
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	WebhookKey string `yaml:"webhook_key"` // shared secret for settlement webhooks
	SuccessURL string `yaml:"success_url"` // default post-payment redirect
	Sandbox    bool   `yaml:"sandbox"`
}

type EmailConfig struct {
	ResendKey string `yaml:"resend_key"`
	From      string `yaml:"from"`
}

type PriceFeedConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Admin     AdminConfig     `yaml:"admin"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Payment   PaymentConfig   `yaml:"payment"`
	Email     EmailConfig     `yaml:"email"`
	PriceFeed PriceFeedConfig `yaml:"pricefeed"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8081
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 30 * time.Minute
	}
	if cfg.Payment.Provider == "" {
		cfg.Payment.Provider = "coinpay"
	}
	if cfg.PriceFeed.Interval <= 0 {
		cfg.PriceFeed.Interval = 15 * time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Admin.JWTSecret == "" {
		cfg.Admin.JWTSecret = cfg.Auth.JWTSecret
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
