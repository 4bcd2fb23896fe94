// Package config loads tripledger configuration from defaults, an optional
// YAML file and TRIPLEDGER_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. TRIPLEDGER_SERVER_ADDR.
const EnvPrefix = "TRIPLEDGER"

// Config represents the complete application configuration.
type Config struct {
	Server struct {
		Addr        string `mapstructure:"addr"`
		MetricsPath string `mapstructure:"metrics_path"`
	} `mapstructure:"server"`

	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		Issuer    string        `mapstructure:"issuer"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Cache struct {
		// Backend is "memory" or "redis".
		Backend string        `mapstructure:"backend"`
		TTL     time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Prefix   string `mapstructure:"prefix"`
	} `mapstructure:"redis"`

	Events struct {
		// AMQPURL empty disables event publishing.
		AMQPURL  string `mapstructure:"amqp_url"`
		Exchange string `mapstructure:"exchange"`
	} `mapstructure:"events"`

	Ledger struct {
		DefaultCurrency string `mapstructure:"default_currency"`
	} `mapstructure:"ledger"`
}

// Load builds the configuration. configFile may be empty, in which case
// config.yaml is looked up in $HOME/.tripledger and the working directory and
// is optional.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.tripledger")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("No config file found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_path", "/metrics")

	v.SetDefault("database.path", "./data/tripledger.db")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "tripledger:")

	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.exchange", "tripledger.bills")

	v.SetDefault("ledger.default_currency", "USD")
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("invalid cache backend: %s (must be 'memory' or 'redis')", c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got: %s", c.Cache.TTL)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got: %s", c.Auth.TokenTTL)
	}

	c.Ledger.DefaultCurrency = strings.ToUpper(strings.TrimSpace(c.Ledger.DefaultCurrency))
	if c.Ledger.DefaultCurrency == "" {
		return errors.New("ledger.default_currency must not be empty")
	}

	return nil
}

// RequireJWTSecret reports an error when no token secret is configured.
// Commands that validate or mint tokens call it.
func (c *Config) RequireJWTSecret() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("%s_AUTH_JWT_SECRET must be set to at least 16 characters", EnvPrefix)
	}
	return nil
}
