// Package config は環境変数からプロセス全体の設定を読み込みます。
// 設定は起動時に一度だけ構築され、以降は変更されません。
package config

import (
	"os"
	"strconv"
	"time"
)

// DB holds the relational database connection settings.
type DB struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	// InstanceConnectionName is set when connecting through a Cloud SQL
	// unix socket instead of TCP.
	InstanceConnectionName string
	// RunMigrations enables AutoMigrate on startup.
	RunMigrations bool
}

// Redis holds the Redis connection settings.
type Redis struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port for the Redis client.
func (r Redis) Addr() string {
	return r.Host + ":" + r.Port
}

// Token holds the signing settings for session tokens.
type Token struct {
	Secret string
	// TTL is the default token lifetime.
	TTL time.Duration
	// RememberTTL is the extended lifetime used when the client asks to
	// stay signed in.
	RememberTTL time.Duration
}

// RateLimit holds the fixed-window limit applied to credential endpoints.
type RateLimit struct {
	Limit  int
	Window time.Duration
}

// Config is the immutable process configuration.
type Config struct {
	Port      string
	DB        DB
	Redis     Redis
	Token     Token
	RateLimit RateLimit
}

// Load は環境変数からConfigを構築します。未設定の値にはデフォルトを使用します。
func Load() Config {
	return Config{
		Port: envOrDefault("PORT", "8080"),
		DB: DB{
			Host:                   os.Getenv("DB_HOST"),
			Port:                   envOrDefault("DB_PORT", "5432"),
			User:                   os.Getenv("DB_USER"),
			Password:               os.Getenv("DB_PASSWORD"),
			Name:                   os.Getenv("DB_NAME"),
			InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
			RunMigrations:          os.Getenv("RUN_MIGRATIONS") == "true",
		},
		Redis: Redis{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     envOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Token: Token{
			Secret:      os.Getenv("JWT_SECRET"),
			TTL:         durationOrDefault("JWT_EXPIRES_IN", 7*24*time.Hour),
			RememberTTL: durationOrDefault("JWT_REMEMBER_EXPIRES_IN", 30*24*time.Hour),
		},
		RateLimit: RateLimit{
			Limit:  intOrDefault("AUTH_RATE_LIMIT", 10),
			Window: durationOrDefault("AUTH_RATE_WINDOW", time.Minute),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func intOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
