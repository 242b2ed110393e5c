package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"go.uber.org/zap"

	"resumeforge/internal/shared/telemetry"
)

// Options controls the analysis history pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

const defaultPingTimeout = 5 * time.Second

var openDB = sql.Open

// DefaultServerOptions suits the API server: history writes are small and infrequent.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	}
}

// DefaultMigrateOptions suits one-shot migration runs.
func DefaultMigrateOptions() Options {
	return Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	}
}

// Override returns o with every positive field of over applied on top.
func (o Options) Override(over Options) Options {
	if over.MaxOpenConns > 0 {
		o.MaxOpenConns = over.MaxOpenConns
	}
	if over.MaxIdleConns > 0 {
		o.MaxIdleConns = over.MaxIdleConns
	}
	if over.ConnMaxLifetime > 0 {
		o.ConnMaxLifetime = over.ConnMaxLifetime
	}
	if over.ConnMaxIdleTime > 0 {
		o.ConnMaxIdleTime = over.ConnMaxIdleTime
	}
	if over.PingTimeout > 0 {
		o.PingTimeout = over.PingTimeout
	}
	return o
}

// Connect opens a pgx-backed *sql.DB and verifies connectivity.
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

	if err := Ping(ctx, db, opts.PingTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}

	stats := db.Stats()
	telemetry.Info("db.connected",
		zap.Int("max_open", stats.MaxOpenConnections),
		zap.Int("open", stats.OpenConnections),
		zap.Duration("ping_timeout", opts.PingTimeout),
	)
	return db, nil
}

// Ping checks connectivity within timeout. Used by the readiness check.
func Ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if db == nil {
		return fmt.Errorf("ping database: not configured")
	}
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func applyOptions(db *sql.DB, opts Options) {
	opts = DefaultServerOptions().Override(opts)
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
}
