package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLClient wraps direct SQL access to the not-found event log.
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient wires a sql.DB; pass a configured instance from main.
func NewMySQLClient(db *sql.DB) *MySQLClient {
	return &MySQLClient{db: db}
}

// OpenMySQL opens a pooled MySQL connection from a DSN, verifies it, and
// ensures the schema exists. parseTime is appended when the DSN omits it,
// since created_at scans depend on it.
func OpenMySQL(ctx context.Context, dsn string) (*MySQLClient, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	if !strings.Contains(dsn, "parseTime") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(60 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	client := NewMySQLClient(db)
	if err := client.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return client, nil
}

// InitSchema creates the events table and its indexes if they are missing.
func (c *MySQLClient) InitSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS not_found_events (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			url_domain VARCHAR(255) NOT NULL,
			url_path TEXT NOT NULL,
			query_string TEXT NULL,
			user_agent TEXT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (id),
			KEY idx_nfe_created_at (created_at),
			KEY idx_nfe_group (url_domain, url_path(191))
		)
	`
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *MySQLClient) Close() error {
	return c.db.Close()
}
