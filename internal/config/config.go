package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	AuthIssuer           string   `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL          string   `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience         string   `mapstructure:"AUTH_AUDIENCE"`
	JWTSigningKey        string   `mapstructure:"JWT_SIGNING_KEY"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS         float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst       int      `mapstructure:"RATE_LIMIT_BURST"`
	MaxRiseDefault       float64  `mapstructure:"MAX_RISE_DEFAULT"`
	MinIntervalWarnHours float64  `mapstructure:"MIN_INTERVAL_WARN_HOURS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("MAX_RISE_DEFAULT", 1.5)
	v.SetDefault("MIN_INTERVAL_WARN_HOURS", 6)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("MAX_RISE_DEFAULT")
	v.BindEnv("MIN_INTERVAL_WARN_HOURS")

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

	if cfg.MaxRiseDefault <= 0 {
		return nil, fmt.Errorf("MAX_RISE_DEFAULT must be positive")
	}
	if cfg.MinIntervalWarnHours <= 0 {
		return nil, fmt.Errorf("MIN_INTERVAL_WARN_HOURS must be positive")
	}

	if !cfg.IsDev() && cfg.AuthIssuer == "" && cfg.AuthJWKSURL == "" && cfg.JWTSigningKey == "" {
		return nil, fmt.Errorf("production mode requires AUTH_ISSUER, AUTH_JWKS_URL, or JWT_SIGNING_KEY")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active; all requests get admin access.")
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
