package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// Dialect names a supported storage engine.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Conn is the live database boundary the core needs: a dialect, a locality
// hint for the safety gate, and a DDL execution channel. Catalog introspection
// lives in the introspect package and type-switches on the concrete Conn.
type Conn interface {
	Dialect() Dialect
	// Local reports whether the target is an embedded or loopback database.
	// Applying against anything else requires an explicit operator override.
	Local() bool
	Exec(ctx context.Context, stmt string) error
	Close()
}

// Open connects to the database named by a URL. postgres:// and postgresql://
// URLs get a pgx pool; sqlite:// URLs (or bare file paths) get an embedded
// sqlite handle.
func Open(ctx context.Context, databaseURL string) (Conn, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return openPostgres(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return openSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	case databaseURL == "":
		return nil, fmt.Errorf("DATABASE_URL not set")
	default:
		// Bare path: treat as an sqlite file, matching the embedded default.
		return openSQLite(ctx, databaseURL)
	}
}

type PostgresConn struct {
	pool  *pgxpool.Pool
	local bool
}

func openPostgres(ctx context.Context, connStr string) (*PostgresConn, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &PostgresConn{pool: pool, local: hostIsLocal(connStr)}, nil
}

func (c *PostgresConn) Dialect() Dialect    { return Postgres }
func (c *PostgresConn) Local() bool         { return c.local }
func (c *PostgresConn) Pool() *pgxpool.Pool { return c.pool }
func (c *PostgresConn) Close()              { c.pool.Close() }

func (c *PostgresConn) Exec(ctx context.Context, stmt string) error {
	_, err := c.pool.Exec(ctx, stmt)
	return err
}

type SQLiteConn struct {
	db *sql.DB
}

func openSQLite(ctx context.Context, path string) (*SQLiteConn, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// One connection total: in-memory databases are per-connection, and the
	// migrator's access model is a single borrowed session anyway.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping sqlite database: %w", err)
	}
	return &SQLiteConn{db: db}, nil
}

func (c *SQLiteConn) Dialect() Dialect { return SQLite }
func (c *SQLiteConn) Local() bool      { return true }
func (c *SQLiteConn) DB() *sql.DB      { return c.db }
func (c *SQLiteConn) Close()           { c.db.Close() }

func (c *SQLiteConn) Exec(ctx context.Context, stmt string) error {
	_, err := c.db.ExecContext(ctx, stmt)
	return err
}

func hostIsLocal(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
