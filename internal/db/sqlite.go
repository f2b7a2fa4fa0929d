package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteParams are appended to the file path unless the caller already
// passed query parameters of their own
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000"

// SQLiteClient manages the connection to a SQLite file
type SQLiteClient struct {
	SQLExecutor
	path string
}

// NewSQLiteClient opens the database file at path. A single connection is
// kept so that an in-memory database survives between statements.
func NewSQLiteClient(ctx context.Context, path string, logger *slog.Logger) (*SQLiteClient, error) {
	dsn := path
	if !strings.Contains(path, "?") {
		dsn = path + "?" + sqliteParams
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}

	return &SQLiteClient{SQLExecutor: SQLExecutor{DB: db, Logger: logger}, path: path}, nil
}

// Path returns the database file the client was opened with
func (c *SQLiteClient) Path() string {
	return c.path
}
