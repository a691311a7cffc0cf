package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"resume-ats/internal/shared/telemetry"
)

// Options controls database pool and connectivity behavior.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var openDB = sql.Open

// DefaultServerOptions returns defaults for the long-running API process.
func DefaultServerOptions() Options {
	return poolOptions(10, 5)
}

// DefaultCLIOptions returns defaults for short-lived commands such as migrations
// and one-off analyses.
func DefaultCLIOptions() Options {
	return poolOptions(1, 1)
}

func poolOptions(maxOpen, maxIdle int) Options {
	return Options{
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
	}
}

// OptionsFromEnv overrides defaults with DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS,
// DB_CONN_MAX_LIFETIME, DB_CONN_MAX_IDLE_TIME and DB_PING_TIMEOUT. Unparseable values
// are logged and ignored.
func OptionsFromEnv(defaults Options) Options {
	v := viper.New()
	v.SetEnvPrefix("db")
	v.AutomaticEnv()

	opts := defaults
	overrideInt(v, "max_open_conns", &opts.MaxOpenConns)
	overrideInt(v, "max_idle_conns", &opts.MaxIdleConns)
	overrideDuration(v, "conn_max_lifetime", &opts.ConnMaxLifetime)
	overrideDuration(v, "conn_max_idle_time", &opts.ConnMaxIdleTime)
	overrideDuration(v, "ping_timeout", &opts.PingTimeout)
	return opts
}

// Connect opens a *sql.DB using the provided DATABASE_URL and verifies connectivity.
// The returned *sql.DB should be shared and re-used by callers.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	applyOptions(db, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logPoolStats(db, "db.init")
	return db, nil
}

func applyOptions(db *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func logPoolStats(db *sql.DB, label string) {
	stats := db.Stats()
	telemetry.Info(label, map[string]any{
		"open":     stats.OpenConnections,
		"in_use":   stats.InUse,
		"idle":     stats.Idle,
		"wait":     stats.WaitCount,
		"max_open": stats.MaxOpenConnections,
	})
}

func overrideInt(v *viper.Viper, key string, dst *int) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return
	}
	val, err := cast.ToIntE(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": envKey(key), "error": err})
		return
	}
	*dst = val
}

func overrideDuration(v *viper.Viper, key string, dst *time.Duration) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": envKey(key), "error": err})
		return
	}
	*dst = val
}

func envKey(key string) string {
	return "DB_" + strings.ToUpper(key)
}
