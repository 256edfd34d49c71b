package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/worktime-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/worktime-backend-go/internal/service/audit"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"

	DefaultAccessExpiration = "1h"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Policy   PolicyConfig
	Audit    AuditConfig
	Jobs     JobsConfig
}

type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	StatsMaxRangeDays  int
}

// PolicyConfig is the organization default attendance policy
type PolicyConfig struct {
	ExpectedClockIn      string
	StandardDailyMinutes int
	Timezone             string
}

type AuditConfig struct {
	Workers       int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

type JobsConfig struct {
	StaleSessionAfter time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		SQLitePath: getEnv("SQLITE_PATH", "data/worktime.db"),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "worktime"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	maxRangeDays, err := getEnvInt("STATS_MAX_RANGE_DAYS", 366)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		StatsMaxRangeDays:  maxRangeDays,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", DefaultAccessExpiration),
	}

	// Attendance policy defaults
	dailyMinutes, err := getEnvInt("POLICY_STANDARD_DAILY_MINUTES", 480)
	if err != nil {
		return nil, err
	}

	config.Policy = PolicyConfig{
		ExpectedClockIn:      getEnv("POLICY_EXPECTED_CLOCK_IN", "09:00"),
		StandardDailyMinutes: dailyMinutes,
		Timezone:             getEnv("POLICY_TIMEZONE", "UTC"),
	}

	// Audit emitter
	workers, err := getEnvInt("AUDIT_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	queueSize, err := getEnvInt("AUDIT_QUEUE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	batchSize, err := getEnvInt("AUDIT_BATCH_SIZE", 100)
	if err != nil {
		return nil, err
	}
	flushInterval, err := getEnvDuration("AUDIT_FLUSH_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	config.Audit = AuditConfig{
		Workers:       workers,
		QueueSize:     queueSize,
		BatchSize:     batchSize,
		FlushInterval: flushInterval,
	}

	// Background jobs
	staleHours, err := getEnvInt("STALE_SESSION_HOURS", 16)
	if err != nil {
		return nil, err
	}
	config.Jobs = JobsConfig{StaleSessionAfter: time.Duration(staleHours) * time.Hour}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverSQLite)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	if _, err := c.DefaultPolicy(); err != nil {
		return fmt.Errorf("invalid default policy: %w", err)
	}

	if c.App.StatsMaxRangeDays <= 0 {
		return fmt.Errorf("STATS_MAX_RANGE_DAYS must be positive")
	}
	if c.Jobs.StaleSessionAfter <= 0 {
		return fmt.Errorf("STALE_SESSION_HOURS must be positive")
	}
	if c.Audit.Workers <= 0 || c.Audit.QueueSize <= 0 || c.Audit.BatchSize <= 0 || c.Audit.FlushInterval <= 0 {
		return fmt.Errorf("AUDIT_* settings must be positive")
	}
	return nil
}

// DefaultPolicy builds the organization policy from POLICY_* settings.
func (c *Config) DefaultPolicy() (policy.Policy, error) {
	return policy.New(c.Policy.ExpectedClockIn, c.Policy.StandardDailyMinutes, c.Policy.Timezone)
}

// AuditEmitterConfig maps AUDIT_* settings onto the emitter's options.
func (c *Config) AuditEmitterConfig() audit.Config {
	return audit.Config{
		BatchSize:     c.Audit.BatchSize,
		FlushInterval: c.Audit.FlushInterval,
		WorkerCount:   c.Audit.Workers,
		QueueSize:     c.Audit.QueueSize,
	}
}

// LogLevel parses LOG_LEVEL, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
