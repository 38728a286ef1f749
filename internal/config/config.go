// Package config loads the server and CLI configuration from environment
// variables and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Report     ReportConfig
	Comparison ComparisonConfig
	RateLimit  RateLimitConfig
	SeedSample bool
}

// ServerConfig holds transport configuration
type ServerConfig struct {
	GRPCPort        string
	HTTPPort        string
	APIToken        string
	ShutdownTimeout time.Duration
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Backend  string
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	ConnStr  string
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// ConnectionString returns ConnStr when set, otherwise builds one from the parts
func (c PostgresConfig) ConnectionString() string {
	if c.ConnStr != "" {
		return c.ConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// ReportConfig holds report rendering configuration
type ReportConfig struct {
	Currency       string
	FractionDigits int // negative uses the currency's own fraction
}

// ComparisonConfig holds comparison set configuration
type ComparisonConfig struct {
	Capacity int
}

// RateLimitConfig holds HTTP rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			GRPCPort:        getEnv("GRPC_PORT", "8080"),
			HTTPPort:        getEnv("HTTP_PORT", "8081"),
			APIToken:        getEnv("API_TOKEN", "dev-token"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
			Postgres: PostgresConfig{
				ConnStr:  getEnv("DB_CONN_STR", ""),
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", "postgres"),
				Database: getEnv("DB_NAME", "assetval"),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 10),
			},
		},
		Report: ReportConfig{
			Currency:       strings.ToUpper(getEnv("REPORT_CURRENCY", "USD")),
			FractionDigits: getEnvAsInt("REPORT_FRACTION_DIGITS", 0),
		},
		Comparison: ComparisonConfig{
			Capacity: getEnvAsInt("COMPARISON_CAPACITY", 4),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		SeedSample: getEnvAsBool("SEED_SAMPLE_DATA", false),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that have no safe fallback
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q: must be %s or %s", c.Store.Backend, BackendPostgres, BackendRedis)
	}
	if c.Comparison.Capacity <= 0 {
		return fmt.Errorf("COMPARISON_CAPACITY must be positive, got %d", c.Comparison.Capacity)
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
