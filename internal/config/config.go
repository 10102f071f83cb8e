package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"      validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"      validate:"required"`
	Worker    WorkerConfig    `mapstructure:"worker"     validate:"required"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port"        validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level"   validate:"required,oneof=debug info warn error"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development staging production test"`
}

// IsProduction reports whether the service runs in the production environment.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseConfig contains all database-related configuration settings.
// Either URL or the individual connection parts must be set.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"omitempty,url"`
	Host         string `mapstructure:"host"           validate:"required_without=URL"`
	Port         int    `mapstructure:"port"           validate:"omitempty,gt=0,lt=65536"`
	User         string `mapstructure:"user"           validate:"required_without=URL"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"           validate:"required_without=URL"`
	SSLMode      string `mapstructure:"sslmode"        validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// DSN returns the connection string for the database. An explicit URL wins
// over the individual parts.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + c.SSLMode
	}
	return u.String()
}

// RedisConfig holds the connection settings for the Redis server that backs
// both the job queue and the task list cache.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// CacheDB selects the logical database used for cached listings so they
	// never share a keyspace with queued jobs.
	CacheDB int `mapstructure:"cache_db" validate:"gte=0,lte=15"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	Algorithm            string `mapstructure:"algorithm"              validate:"required,oneof=HS256 HS384 HS512"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,gte=4,lte=31"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// CacheConfig controls the task list cache.
type CacheConfig struct {
	TaskListTTLSeconds int `mapstructure:"task_list_ttl_seconds" validate:"gte=0"`
}

// TaskListTTL returns the lifetime of a cached task list page.
func (c CacheConfig) TaskListTTL() time.Duration {
	return time.Duration(c.TaskListTTLSeconds) * time.Second
}

// WorkerConfig controls the background job consumer.
type WorkerConfig struct {
	Count       int    `mapstructure:"count"        validate:"required,gt=0"`
	MaxAttempts int    `mapstructure:"max_attempts" validate:"required,gt=0"`
	QueueKey    string `mapstructure:"queue_key"    validate:"required"`
}

// SMTPConfig holds outgoing mail settings. When Host is empty, mail is
// written to the log instead of being delivered.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Sender   string `mapstructure:"sender"   validate:"required_with=Host"`
}

// Enabled reports whether real SMTP delivery is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// RateLimitConfig controls the per-client limiter on the auth endpoints.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst"               validate:"gte=0"`
}

// Enabled reports whether rate limiting is switched on.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0 && c.Burst > 0
}
