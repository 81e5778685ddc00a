// Package config loads process settings from .env files, environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"helios-dashboard/internal/cache"
	"helios-dashboard/internal/domain"
)

// Defaults.
const (
	DefaultHTTPAddr     = ":8080"
	DefaultQueryTimeout = 10 * time.Second
	DefaultSessionIdle  = 30 * time.Minute
	DefaultRedisPrefix  = cache.DefaultRedisPrefix
)

// Config holds settings shared by the binaries.
type Config struct {
	// Storage
	PostgresDSN   string
	ClickhouseDSN string // optional; samples are read from PostgreSQL when empty
	UseMemory     bool

	// Cache
	RedisAddr   string // optional; the in-process store is used when empty
	RedisDB     int
	RedisPrefix string
	SessionIdle time.Duration

	// Serving
	HTTPAddr     string
	QueryTimeout time.Duration
	Window       int

	LogLevel slog.Level
}

// LoadEnvFiles loads the given .env files into the process environment.
// Missing files are ignored and variables already set are never overridden.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment lookups.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Config{
		PostgresDSN:   getenv("POSTGRES_DSN"),
		ClickhouseDSN: getenv("CLICKHOUSE_DSN"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPrefix:   orDefault(getenv("REDIS_PREFIX"), DefaultRedisPrefix),
		HTTPAddr:      orDefault(getenv("HTTP_ADDR"), DefaultHTTPAddr),
		QueryTimeout:  DefaultQueryTimeout,
		SessionIdle:   DefaultSessionIdle,
		Window:        domain.DefaultWindow,
		LogLevel:      slog.LevelInfo,
	}
	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = PostgresDSNFromParts(
			getenv("DB_HOST"), getenv("DB_PORT"), getenv("DB_USER"), getenv("DB_PASSWORD"), getenv("DB_NAME"))
	}

	var err error
	if v := getenv("REDIS_DB"); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
	}
	if v := getenv("MA_WINDOW"); v != "" {
		if cfg.Window, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("invalid MA_WINDOW %q: %w", v, err)
		}
	}
	if v := getenv("QUERY_TIMEOUT"); v != "" {
		if cfg.QueryTimeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("invalid QUERY_TIMEOUT %q: %w", v, err)
		}
	}
	if v := getenv("SESSION_IDLE"); v != "" {
		if cfg.SessionIdle, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("invalid SESSION_IDLE %q: %w", v, err)
		}
	}
	if v := getenv("USE_MEMORY"); v != "" {
		if cfg.UseMemory, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("invalid USE_MEMORY %q: %w", v, err)
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = ParseLevel(v); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// RegisterFlags binds flags to cfg, using its current values as defaults.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	fs.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string for samples (optional)")
	fs.BoolVar(&cfg.UseMemory, "use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the result cache (optional)")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database number")
	fs.DurationVar(&cfg.SessionIdle, "session-idle", cfg.SessionIdle, "Idle time after which a session cache is purged")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.DurationVar(&cfg.QueryTimeout, "query-timeout", cfg.QueryTimeout, "Per-request query timeout")
	fs.IntVar(&cfg.Window, "window", cfg.Window, "Default moving-average window (samples)")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// Validate checks settings that cannot be defaulted.
func (cfg Config) Validate() error {
	if !cfg.UseMemory && cfg.PostgresDSN == "" {
		return errors.New("postgres DSN is required (set POSTGRES_DSN or DB_* variables, or use --use-memory)")
	}
	if cfg.Window < 1 {
		return fmt.Errorf("window must be >= 1, got %d", cfg.Window)
	}
	if cfg.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive, got %s", cfg.QueryTimeout)
	}
	return nil
}

// PostgresDSNFromParts assembles a connection URL from discrete settings.
// Returns "" when host or database name is missing.
func PostgresDSNFromParts(host, port, user, password, dbname string) string {
	if host == "" || dbname == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + dbname,
	}
	switch {
	case user != "" && password != "":
		u.User = url.UserPassword(user, password)
	case user != "":
		u.User = url.User(user)
	}
	return u.String()
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// NewLogger returns a colorized text logger.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	}))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
