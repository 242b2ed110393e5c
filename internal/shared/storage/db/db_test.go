package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                   { return nil }
func (nopStmt) NumInput() int                                  { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return nopResult{}, nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nopRows{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type nopResult struct{}

func (nopResult) LastInsertId() (int64, error) { return 0, nil }
func (nopResult) RowsAffected() (int64, error) { return 0, nil }

type nopRows struct{}

func (nopRows) Columns() []string              { return []string{} }
func (nopRows) Close() error                   { return nil }
func (nopRows) Next(dest []driver.Value) error { return driver.ErrBadConn }

var registerTestDriverOnce sync.Once

func ensureTestDriverRegistered() {
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
}

func withTestDriver(t *testing.T) func() {
	t.Helper()
	ensureTestDriverRegistered()
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	return func() {
		openDB = prev
	}
}

func TestOverrideKeepsDefaultsForZeroFields(t *testing.T) {
	opts := DefaultServerOptions().Override(Options{
		MaxOpenConns:    7,
		ConnMaxIdleTime: 45 * time.Second,
	})
	if opts.MaxOpenConns != 7 {
		t.Fatalf("expected MaxOpenConns=7, got %d", opts.MaxOpenConns)
	}
	if opts.MaxIdleConns != 5 {
		t.Fatalf("expected default MaxIdleConns=5, got %d", opts.MaxIdleConns)
	}
	if opts.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("expected ConnMaxIdleTime=45s, got %s", opts.ConnMaxIdleTime)
	}
	if opts.PingTimeout != 5*time.Second {
		t.Fatalf("expected default PingTimeout=5s, got %s", opts.PingTimeout)
	}
}

func TestConnectAppliesPoolOptions(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	db, err := Connect(context.Background(), "ignored", DefaultServerOptions().Override(Options{MaxOpenConns: 3}))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("expected MaxOpenConnections=3, got %d", got)
	}
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultServerOptions()); err == nil {
		t.Fatalf("expected error for empty DATABASE_URL")
	}
}

func TestConnectSurfacesOpenError(t *testing.T) {
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return nil, driver.ErrBadConn
	}
	defer func() {
		openDB = prev
	}()

	_, err := Connect(context.Background(), "postgres://ignored", DefaultServerOptions())
	if err == nil || !errors.Is(err, driver.ErrBadConn) {
		t.Fatalf("expected wrapped ErrBadConn, got %v", err)
	}
}

func TestPingUsesConnection(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	db, err := Connect(context.Background(), "ignored", DefaultMigrateOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()
	if err := Ping(context.Background(), db, 0); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestPingNilDatabase(t *testing.T) {
	if err := Ping(context.Background(), nil, time.Second); err == nil {
		t.Fatalf("expected error for nil database")
	}
}
