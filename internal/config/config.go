package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Data models. Exactly one is served per deployment.
const (
	DataModelRecords = "records"
	DataModelEntries = "entries"
)

const defaultSQLiteDSN = "file:assets.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

type Config struct {
	Addr            string
	DBDriver        string
	DBDSN           string
	DataModel       string
	AllowedOrigins  []string
	LogMode         string
	EnableMetrics   bool
	EnableSwagger   bool
	ShutdownTimeout time.Duration
}

func Load() *Config {
	config := &Config{
		Addr:            getEnv("ADDR", ":8080"),
		DBDriver:        getEnv("DB_DRIVER", "pgx"),
		DBDSN:           os.Getenv("DB_DSN"),
		DataModel:       getEnv("DATA_MODEL", DataModelRecords),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		LogMode:         getEnv("LOG_MODE", "development"),
		EnableMetrics:   os.Getenv("ENABLE_METRICS") == "true",
		EnableSwagger:   os.Getenv("ENABLE_SWAGGER") == "true",
		ShutdownTimeout: 10 * time.Second,
	}

	if config.DBDSN == "" && config.DBDriver == "sqlite" {
		config.DBDSN = defaultSQLiteDSN
	}

	// Parse shutdown timeout from environment if provided
	if timeoutStr := os.Getenv("SHUTDOWN_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.ShutdownTimeout = timeout
		}
	}

	return config
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "pgx", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be pgx, postgres or sqlite, got %q", c.DBDriver))
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN environment variable is required"))
	}

	switch c.DataModel {
	case DataModelRecords, DataModelEntries:
	default:
		errs = append(errs, fmt.Errorf("DATA_MODEL must be %s or %s, got %q", DataModelRecords, DataModelEntries, c.DataModel))
	}

	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must list at least one origin"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
