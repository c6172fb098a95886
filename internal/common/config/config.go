// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig      `mapstructure:"app"`
	Server    ServerConfig   `mapstructure:"server"`
	Auth      AuthConfig     `mapstructure:"auth"`
	Templates TemplateConfig `mapstructure:"templates"`
	Renderer  RendererConfig `mapstructure:"renderer"`
	Store     StoreConfig    `mapstructure:"store"`
	Database  DatabaseConfig `mapstructure:"database"`
	Sessions  SessionConfig  `mapstructure:"sessions"`
	Logging   LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	BaseURL   string          `mapstructure:"base_url"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds the shared API token checked by the auth middleware.
type AuthConfig struct {
	Token string `mapstructure:"token"`
}

// TemplateConfig holds settings for the template catalog.
type TemplateConfig struct {
	Dir string `mapstructure:"dir"`
}

// RendererConfig holds settings for the headless PDF renderer.
type RendererConfig struct {
	ExecPath  string         `mapstructure:"exec_path"` // empty = let chromedp resolve the browser
	Timeout   int            `mapstructure:"timeout"`   // milliseconds
	Viewport  ViewportConfig `mapstructure:"viewport"`
	NoSandbox bool           `mapstructure:"no_sandbox"`
}

type ViewportConfig struct {
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Scale  float64 `mapstructure:"scale"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "filesystem" or "redis"
	Dir     string `mapstructure:"dir"`     // filesystem backend
	TTL     int    `mapstructure:"ttl"`     // redis backend, seconds, 0 = keep forever
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig controls the optional postgres-backed template sessions.
type SessionConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
