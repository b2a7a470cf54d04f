package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ENV:"

type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Log       LogConfig         `mapstructure:"log"`
	Redis     RedisConfig       `mapstructure:"redis"`
	RateLimit RateLimitConfig   `mapstructure:"rate_limit"`
	Database  DatabaseConfig    `mapstructure:"database"`
	Cache     CacheConfig       `mapstructure:"cache"`
	Tracing   TracingConfig     `mapstructure:"tracing"`
	Providers []ProviderConfig  `mapstructure:"providers"`
	Aliases   map[string]string `mapstructure:"aliases"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// APIKeys guards /v1 when non-empty.
	APIKeys []string `mapstructure:"api_keys"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	DSN     string `mapstructure:"dsn"`
	Enabled bool   `mapstructure:"enabled"`
}

type CacheConfig struct {
	ModelsTTL time.Duration `mapstructure:"models_ttl"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// ProviderConfig configures one vendor adapter.
type ProviderConfig struct {
	Name            string        `mapstructure:"name" validate:"required,oneof=openai anthropic claude gemini google grok xai"`
	APIKey          string        `mapstructure:"api_key" validate:"required"`
	BaseURL         string        `mapstructure:"base_url" validate:"omitempty,url"`
	Organization    string        `mapstructure:"organization"`
	Version         string        `mapstructure:"version"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Enabled         bool          `mapstructure:"enabled"`
	ValidateOnStart bool          `mapstructure:"validate_on_start"`
}

// DefaultProviders enables every vendor with its key read from the
// conventional environment variable.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{Name: "openai", APIKey: envPrefix + "OPENAI_API_KEY", Enabled: true},
		{Name: "anthropic", APIKey: envPrefix + "ANTHROPIC_API_KEY", Enabled: true},
		{Name: "gemini", APIKey: envPrefix + "GEMINI_API_KEY", Enabled: true},
		{Name: "grok", APIKey: envPrefix + "XAI_API_KEY", Enabled: true},
	}
}

// LoadConfig reads configuration from file or environment variables.
// CONFIG_FILE points at an explicit file; otherwise config.yaml is searched
// for in the working directory and ./config.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Default Values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.dsn", "file:usage.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	v.SetDefault("cache.models_ttl", "10m")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "ai-core")

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if len(cfg.Providers) == 0 {
		cfg.Providers = DefaultProviders()
	}

	// Resolve API Keys
	for i, p := range cfg.Providers {
		cfg.Providers[i].APIKey = resolveSecret(v, p.APIKey)
	}

	return &cfg, nil
}

func resolveSecret(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, envPrefix) {
		return value
	}
	envVar := strings.TrimPrefix(value, envPrefix)
	// process environment first, then whatever viper collected
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return v.GetString(envVar)
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}
