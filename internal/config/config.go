// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

// Safe-transaction sign conventions accepted by SAFE_EXPENSE_SIGN.
const (
	SafeSignUnsigned = "unsigned"
	SafeSignNegative = "negative"
)

// Config holds runtime configuration for the service.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	AppPort  string `envconfig:"APP_PORT" default:"8080"`
	BasePath string `envconfig:"APP_BASE_PATH" default:""`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"2"`

	TimeZone  string `envconfig:"TIME_ZONE" default:"Asia/Colombo"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	SafeExpenseSign     string        `envconfig:"SAFE_EXPENSE_SIGN" default:"unsigned"`
	ReportSlowThreshold time.Duration `envconfig:"REPORT_SLOW_THRESHOLD" default:"500ms"`

	// AuditCompressThreshold is the audit payload size in bytes above which it is zstd-compressed.
	AuditCompressThreshold int `envconfig:"AUDIT_COMPRESS_THRESHOLD" default:"512"`

	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("TIME_ZONE %q: %w", c.TimeZone, err)
	}
	switch c.SafeExpenseSign {
	case SafeSignUnsigned, SafeSignNegative:
	default:
		return fmt.Errorf("SAFE_EXPENSE_SIGN must be %q or %q, got %q", SafeSignUnsigned, SafeSignNegative, c.SafeExpenseSign)
	}
	if c.AuditCompressThreshold < 0 {
		return fmt.Errorf("AUDIT_COMPRESS_THRESHOLD must not be negative, got %d", c.AuditCompressThreshold)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

// Location resolves the configured zone. Validate has already proven it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
