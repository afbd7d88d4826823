// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	WhatsApp WhatsAppConfig
	Ledger   LedgerConfig
	Location LocationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

// DatabaseConfig holds PostgreSQL connection settings. RawDSN, when set,
// takes precedence over the discrete fields.
type DatabaseConfig struct {
	RawDSN   string `env:"DATABASE_DSN"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"gestion"`
	Password string `env:"DB_PASSWORD" envDefault:"gestion"`
	DBName   string `env:"DB_NAME" envDefault:"gestion"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	Debug    bool   `env:"DB_DEBUG"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool   `env:"DEV"`
	Migrations    bool   `env:"MIGRATIONS"`
	CompanyName   string `env:"COMPANY_NAME" envDefault:"Gestion"`
	AdminCIN      string `env:"ADMIN_CIN"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrateur"`
	// StrictAccess makes the schedule middleware deny inactive schedules and fail closed.
	StrictAccess bool `env:"ACCESS_STRICT"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	TokenTTL      time.Duration `env:"JWT_TTL" envDefault:"168h"`
	SessionSecret string        `env:"SESSION_SECRET"`
}

// WhatsAppConfig points at the messaging gateway. Values may be quoted in .env files.
type WhatsAppConfig struct {
	BaseURL string        `env:"WHTSP_SERVICE_BASE_URL"`
	APIKey  string        `env:"WHTSP_SERVICE_API_KEY"`
	Timeout time.Duration `env:"WHTSP_TIMEOUT" envDefault:"20s"`
}

// LedgerConfig holds the default overdue threshold for contacts.
type LedgerConfig struct {
	OverdueValue int    `env:"OVERDUE_VALUE" envDefault:"30"`
	OverdueUnit  string `env:"OVERDUE_UNIT" envDefault:"days"`
}

type LocationConfig struct {
	TimeZone string `env:"APP_TIMEZONE" envDefault:"Africa/Casablanca"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return NormalizeDSN(d.RawDSN)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as expected by golang-migrate.
func (d DatabaseConfig) URL() string {
	if d.RawDSN != "" {
		return ToURLDSN(NormalizeDSN(d.RawDSN))
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Location resolves the configured time zone, falling back to UTC.
func (l LocationConfig) Location() *time.Location {
	loc, err := time.LoadLocation(l.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Trimmed strips whitespace and surrounding quotes from the gateway settings.
func (w WhatsAppConfig) Trimmed() WhatsAppConfig {
	w.BaseURL = strings.TrimRight(unquote(w.BaseURL), "/")
	w.APIKey = unquote(w.APIKey)
	return w
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.Ledger.OverdueValue <= 0 {
		cfg.Ledger.OverdueValue = 30
	}
	return &cfg, nil
}
