package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                  string   `mapstructure:"PORT"`
	Env                   string   `mapstructure:"ENV"`
	DatabaseURL           string   `mapstructure:"DATABASE_URL"`
	DBMaxConns            int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns            int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret             string   `mapstructure:"JWT_SECRET"`
	TokenTTLDays          int      `mapstructure:"TOKEN_TTL_DAYS"`
	CORSOrigins           []string `mapstructure:"CORS_ORIGINS"`
	AvailabilityCacheSize int      `mapstructure:"AVAILABILITY_CACHE_SIZE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_DAYS", 7)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("AVAILABILITY_CACHE_SIZE", 256)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_TTL_DAYS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AVAILABILITY_CACHE_SIZE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. A development
// instance falls back to a fixed signing secret so the server starts without
// setup; production must supply its own.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.TokenTTLDays <= 0 {
		return fmt.Errorf("TOKEN_TTL_DAYS must be positive, got %d", c.TokenTTLDays)
	}
	if c.AvailabilityCacheSize <= 0 {
		return fmt.Errorf("AVAILABILITY_CACHE_SIZE must be positive, got %d", c.AvailabilityCacheSize)
	}
	return nil
}

// SigningSecret returns the configured JWT secret, substituting a fixed
// development value when unset. Validate rejects that fallback in production.
func (c *Config) SigningSecret() []byte {
	if c.JWTSecret == "" {
		return []byte("dev-only-insecure-secret")
	}
	return []byte(c.JWTSecret)
}
