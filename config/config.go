package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "https://codeintervu-backend.onrender.com/api"

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config represents the complete console configuration
type Config struct {
	Server        ServerConfig
	Backend       BackendConfig
	Session       SessionConfig
	Storage       StorageConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds the local HTTP shell configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// BackendConfig holds the content backend the console talks to
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds view paths and the post-rejection navigation delay
type SessionConfig struct {
	LoginPath       string
	HomePath        string
	NavigationDelay time.Duration
}

// StorageConfig selects where the credential slot lives
type StorageConfig struct {
	Driver   string // memory, file, redis or postgres
	FilePath string
	RedisURL string
	Prefix   string
	Database DatabaseConfig
}

// DatabaseConfig holds PostgreSQL configuration for the postgres driver.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "127.0.0.1"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*"}),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBaseURL), "/"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			LoginPath:       getEnv("LOGIN_PATH", "/login"),
			HomePath:        getEnv("HOME_PATH", "/"),
			NavigationDelay: getEnvAsDuration("NAVIGATION_DELAY", 1500*time.Millisecond),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
			FilePath: getEnv("STORAGE_FILE", defaultStorageFile()),
			RedisURL: getEnv("REDIS_URL", ""),
			Prefix:   getEnv("STORAGE_PREFIX", "admin-console:"),
			Database: loadDatabaseConfig(),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.Backend.BaseURL)
	}
	if c.IsProduction() && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use https in production")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	if !strings.HasPrefix(c.Session.LoginPath, "/") || !strings.HasPrefix(c.Session.HomePath, "/") {
		return fmt.Errorf("LOGIN_PATH and HOME_PATH must start with /")
	}
	if c.Session.NavigationDelay < 0 {
		return fmt.Errorf("NAVIGATION_DELAY must not be negative")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("STORAGE_FILE is required for the file driver")
		}
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis driver")
		}
	case StoragePostgres:
		if c.Storage.Database.ConnectionString == "" && c.Storage.Database.Host == "" {
			return fmt.Errorf("database configuration required: set DATABASE_URL or DB_HOST")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password)
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			return fmt.Sprintf("host=%s port=%s database=%s", u.Hostname(), port, strings.TrimPrefix(u.Path, "/"))
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		ConnectionString: getEnv("DATABASE_URL", ""),
		Host:             getEnv("DB_HOST", ""),
		Port:             getEnvAsInt("DB_PORT", 5432),
		User:             getEnv("DB_USER", "console"),
		Password:         getEnv("DB_PASSWORD", ""),
		Database:         getEnv("DB_NAME", "console"),
		SSLMode:          getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 4),
		MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

func defaultStorageFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "admin-console/storage.json"
	}
	return dir + string(os.PathSeparator) + "admin-console" + string(os.PathSeparator) + "storage.json"
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 5174)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 5174
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
