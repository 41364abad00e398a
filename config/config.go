package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Notification delivery modes.
const (
	NotifyDirect = "direct"
	NotifyQueue  = "queue"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8082"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"registration_db"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// RabbitURL is optional. Without it the catalog sync consumer is not
	// started and notifications are always delivered directly.
	RabbitURL string `env:"RABBITMQ_URL"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	EmailFrom string `env:"EMAIL_FROM"`
	// SMTPSecure switches the relay connection to implicit TLS.
	SMTPSecure bool `env:"SMTP_SECURE" envDefault:"false"`

	NotifyMode    string        `env:"NOTIFY_MODE" envDefault:"direct"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`

	ClientURL string `env:"CLIENT_URL"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.NotifyMode {
	case NotifyDirect:
	case NotifyQueue:
		if c.RabbitURL == "" {
			return errors.New("NOTIFY_MODE=queue requires RABBITMQ_URL")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_MODE %q", c.NotifyMode)
	}
	if c.NotifyTimeout <= 0 {
		return errors.New("NOTIFY_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// SMTPConfigured reports whether outbound mail has enough settings to be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

// Sender returns the From address, falling back to a no-reply mailbox.
func (c *Config) Sender() string {
	if c.EmailFrom != "" {
		return c.EmailFrom
	}
	host := c.SMTPHost
	if host == "" {
		host = "frolic.local"
	}
	return "no-reply@" + host
}
