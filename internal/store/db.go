package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// NewDB opens a PostgreSQL connection pool and verifies it is reachable
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS sheets (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS sheet_rows (
	id         BIGSERIAL PRIMARY KEY,
	sheet      TEXT NOT NULL REFERENCES sheets(name),
	cells      TEXT[] NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS sheet_rows_sheet_id_idx ON sheet_rows (sheet, id);
`

// Sheet names a sheet and the header row it starts with
type Sheet struct {
	Name   string
	Header []string
}

// Migrate creates the sheet tables, registers the sheets and writes each
// header row into a sheet that has no rows yet. Data ranges start at row 2,
// so a header-less sheet would hide its first row
func Migrate(ctx context.Context, db *sql.DB, sheets ...Sheet) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	for _, sh := range sheets {
		_, err := db.ExecContext(ctx,
			`INSERT INTO sheets (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, sh.Name)
		if err != nil {
			return fmt.Errorf("failed to register sheet %s: %w", sh.Name, err)
		}

		if len(sh.Header) == 0 {
			continue
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO sheet_rows (sheet, cells)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM sheet_rows WHERE sheet = $1)
		`, sh.Name, pq.Array(sh.Header))
		if err != nil {
			return fmt.Errorf("failed to seed header of sheet %s: %w", sh.Name, err)
		}
	}

	return nil
}
