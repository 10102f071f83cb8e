package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment.
const EnvPrefix = "TODO"

// legacyEnv maps configuration keys to the un-prefixed variable names used by
// the docker-compose setup this service is deployed with.
var legacyEnv = map[string]string{
	"database.url":                "DATABASE_URL",
	"database.host":               "POSTGRES_HOST",
	"database.port":               "POSTGRES_PORT",
	"database.user":               "POSTGRES_USER",
	"database.password":           "POSTGRES_PASSWORD",
	"database.name":               "POSTGRES_DB",
	"redis.url":                   "REDIS_URL",
	"auth.jwt_secret":             "SECRET_KEY",
	"auth.algorithm":              "ALGORITHM",
	"auth.token_lifetime_minutes": "ACCESS_TOKEN_EXPIRE_MINUTES",
	"server.environment":          "ENVIRONMENT",
}

// setDefaults registers default values for every optional setting.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", "development")

	// Empty defaults make the keys known to viper so env overrides unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.sender", "")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.cache_db", 1)

	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.token_lifetime_minutes", 30)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("cache.task_list_ttl_seconds", 300)

	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.max_attempts", 3)
	v.SetDefault("worker.queue_key", "todo:jobs")

	v.SetDefault("smtp.port", 587)

	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 10)
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Prefixed variables win over the legacy names.
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", legacy, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
