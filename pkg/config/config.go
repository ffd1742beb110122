package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	OAuth    OAuthConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Dify     DifyConfig
	App      AppConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"meeting_notes"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:"http://localhost:8080/v1/auth/google/callback"`
	// FrontendURL receives the browser after the callback completes
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
}

// Enabled reports whether Google login is configured
func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"your-refresh-secret-change-in-production"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-notes"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// DifyConfig holds the chat-messages LLM endpoint configuration
type DifyConfig struct {
	BaseURL    string        `envconfig:"DIFY_API_BASE" default:"https://api.dify.ai/v1"`
	APIKey     string        `envconfig:"DIFY_API_KEY"`
	Timeout    time.Duration `envconfig:"DIFY_TIMEOUT" default:"120s"`
	MaxRetries uint64        `envconfig:"DIFY_MAX_RETRIES" default:"2"`
	PromptLang string        `envconfig:"DIFY_PROMPT_LANG" default:"ja"`
	CacheTTL   time.Duration `envconfig:"ANALYSIS_CACHE_TTL" default:"24h"`
}

// AppConfig holds product level settings
type AppConfig struct {
	Timezone         string  `envconfig:"APP_TIMEZONE" default:"Asia/Tokyo"`
	AnalyzeRateLimit float64 `envconfig:"ANALYZE_RATE_PER_MINUTE" default:"6"`
	AnalyzeBurst     int     `envconfig:"ANALYZE_BURST" default:"3"`
	DebugDiagnostics bool    `envconfig:"DEBUG_DIAGNOSTICS" default:"false"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	switch c.Dify.PromptLang {
	case "ja", "en":
	default:
		return fmt.Errorf("DIFY_PROMPT_LANG must be ja or en, got %q", c.Dify.PromptLang)
	}
	if c.App.AnalyzeRateLimit <= 0 {
		return fmt.Errorf("ANALYZE_RATE_PER_MINUTE must be positive")
	}
	if !c.IsProduction() {
		return nil
	}
	if strings.HasPrefix(c.JWT.AccessSecret, "your-") || strings.HasPrefix(c.JWT.RefreshSecret, "your-") {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required in production")
	}
	if c.Dify.APIKey == "" {
		return fmt.Errorf("DIFY_API_KEY is required in production")
	}
	return nil
}

// Location returns the timezone meeting dates are interpreted in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
