package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Schema creates the tables used by the repositories. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	reference_code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS portfolios (
	id          UUID PRIMARY KEY,
	customer_id UUID NOT NULL REFERENCES customers(id),
	name        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS deposit_plans (
	id          UUID PRIMARY KEY,
	customer_id UUID NOT NULL REFERENCES customers(id),
	kind        TEXT NOT NULL,
	priority    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS deposit_plan_targets (
	plan_id      UUID NOT NULL REFERENCES deposit_plans(id),
	portfolio_id UUID NOT NULL REFERENCES portfolios(id),
	position     INTEGER NOT NULL,
	target       NUMERIC NOT NULL,
	applied      NUMERIC NOT NULL DEFAULT 0,
	PRIMARY KEY (plan_id, portfolio_id)
);
`

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=depositflow sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate applies Schema
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
