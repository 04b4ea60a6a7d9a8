package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

// DB is the contest archive. Live room state never goes through it.
type DB struct {
	conn   *sql.DB
	dsn    string
	logger *slog.Logger
}

func Connect(dsn string, logger *slog.Logger) (*DB, error) {
	return Open("postgres", dsn, logger)
}

// Open connects through any registered database/sql driver. Migrate only
// supports postgres.
func Open(driverName, dsn string, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	logger = logger.With("component", "db")
	logger.Info("connected to database", "driver", driverName)
	return &DB{conn: conn, dsn: dsn, logger: logger}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) Ping() error {
	return d.conn.Ping()
}

func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.conn.QueryRow(query, args...)
}

func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return d.conn.Query(query, args...)
}

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.conn.Exec(query, args...)
}
