package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"

	"github.com/tordrt/dbedit/internal/dialect"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	SQLExecutor
}

// NewMySQLClient creates a new MySQL client
func NewMySQLClient(ctx context.Context, connString string, logger *slog.Logger) (*MySQLClient, error) {
	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{SQLExecutor{DB: db, Logger: logger}}, nil
}

// UseDatabase switches the session's current database
func (c *MySQLClient) UseDatabase(ctx context.Context, name string) error {
	if _, err := c.Exec(ctx, "USE "+dialect.MySQL.QuoteIdent(name)); err != nil {
		return fmt.Errorf("failed to use database %s: %w", name, err)
	}
	return nil
}
