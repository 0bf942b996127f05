package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Admin      AdminConfig      `yaml:"admin"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Payment    PaymentConfig    `yaml:"payment"`
	Confirm    ConfirmConfig    `yaml:"confirm"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	Env          string        `yaml:"env"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	RateLimit    int           `yaml:"rate_limit"` // requests per minute per IP
}

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type JWTConfig struct {
	AccessSecret string        `yaml:"access_secret"`
	AccessExpiry time.Duration `yaml:"access_expiry"`
	Issuer       string        `yaml:"issuer"`
}

// AdminConfig is the account seeded on first start.
type AdminConfig struct {
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
	Password string `yaml:"password"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

// Configured reports whether real credentials were supplied.
func (c CloudinaryConfig) Configured() bool {
	return c.APISecret != "" && c.APISecret != "placeholder"
}

type PaymentConfig struct {
	Provider      string `yaml:"provider"` // stripe | stub
	StripeKey     string `yaml:"stripe_key"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// ConfirmConfig tunes the checkout confirmation poll.
type ConfirmConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8001",
			Env:          "development",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			CORSOrigins:  []string{"*"},
			RateLimit:    100,
		},
		Database: DatabaseConfig{
			DSN:             "arar:arar@tcp(localhost:3306)/arar_parfums?charset=utf8mb4&parseTime=True&loc=Local",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret: "change-me-in-production",
			AccessExpiry: 24 * time.Hour,
			Issuer:       "arar-parfums",
		},
		Admin: AdminConfig{
			Email:    "admin@arar-parfums.com",
			FullName: "ARAR Admin",
			Password: "ArarAdmin2024!",
		},
		Cloudinary: CloudinaryConfig{
			Folder: "arar_parfums_collection",
		},
		Payment: PaymentConfig{
			Provider: "stripe",
		},
		Confirm: ConfirmConfig{
			Interval:    2 * time.Second,
			MaxAttempts: 5,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// ARAR_CONFIG, and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("ARAR_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Env, "APP_ENV")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	setInt(&c.Server.RateLimit, "RATE_LIMIT_PER_MINUTE")
	setString(&c.Database.DSN, "DATABASE_DSN")
	setString(&c.JWT.AccessSecret, "JWT_SECRET_KEY")
	setString(&c.Admin.Email, "ADMIN_EMAIL")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&c.Payment.Provider, "PAYMENT_PROVIDER")
	setString(&c.Payment.StripeKey, "STRIPE_SECRET_KEY")
	if c.Payment.StripeKey == "" {
		setString(&c.Payment.StripeKey, "STRIPE_API_KEY")
	}
	setString(&c.Payment.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("jwt.access_secret is required")
	}
	if c.Server.Env == "production" && c.JWT.AccessSecret == Default().JWT.AccessSecret {
		return fmt.Errorf("jwt.access_secret must be changed in production")
	}
	switch c.Payment.Provider {
	case "stripe":
		if c.Server.Env == "production" && c.Payment.StripeKey == "" {
			return fmt.Errorf("payment.stripe_key is required in production")
		}
	case "stub":
	default:
		return fmt.Errorf("payment.provider must be stripe or stub, got %q", c.Payment.Provider)
	}
	if c.Confirm.MaxAttempts <= 0 || c.Confirm.Interval <= 0 {
		return fmt.Errorf("confirm.interval and confirm.max_attempts must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
