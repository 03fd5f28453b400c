// api/database/schema.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"
)

// The base tables carry only the columns the very first deployment had.
// Everything added since lives in visitColumns so that a database at any
// prior schema version is migrated forward on boot.
const createVisitsTable = `
	CREATE TABLE IF NOT EXISTS visits (
		id SERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_heartbeat TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		page TEXT DEFAULT 'home'
	);
`

const createEventsTable = `
	CREATE TABLE IF NOT EXISTS events (
		id SERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		event_type TEXT,
		event_name TEXT,
		metadata TEXT
	);
`

// visitColumns is the fixed list of additive changes applied to visits on
// every boot. Order matters only for log readability.
var visitColumns = []string{
	"identity_hash",
	"language",
	"country",
	"city",
	"referrer",
	"browser",
	"os",
	"device_type",
}

type ColumnOutcome string

const (
	ColumnAdded  ColumnOutcome = "added"
	ColumnExists ColumnOutcome = "already_exists"
	ColumnFailed ColumnOutcome = "failed"
)

type ColumnMigration struct {
	Column  string
	Outcome ColumnOutcome
	Err     error
}

// pqDuplicateColumn is the PostgreSQL error code for "column already exists".
const pqDuplicateColumn = "42701"

// InitSchema creates both tables if absent, then attempts every additive
// column change independently. Column failures are recorded and logged but
// never abort startup: an already-migrated database must be a no-op boot.
func InitSchema(ctx context.Context, db *sql.DB) ([]ColumnMigration, error) {
	if _, err := db.ExecContext(ctx, createVisitsTable); err != nil {
		return nil, fmt.Errorf("failed to create visits table: %w", err)
	}
	if _, err := db.ExecContext(ctx, createEventsTable); err != nil {
		return nil, fmt.Errorf("failed to create events table: %w", err)
	}

	outcomes := make([]ColumnMigration, 0, len(visitColumns))
	for _, col := range visitColumns {
		outcomes = append(outcomes, addVisitColumn(ctx, db, col))
	}

	for _, m := range outcomes {
		switch m.Outcome {
		case ColumnAdded:
			log.Printf("Schema: added visits.%s", m.Column)
		case ColumnFailed:
			log.Printf("Schema: could not add visits.%s (ignored): %v", m.Column, m.Err)
		}
	}

	return outcomes, nil
}

func addVisitColumn(ctx context.Context, db *sql.DB, column string) ColumnMigration {
	// Column names come from the fixed list above, never from input.
	stmt := fmt.Sprintf(`ALTER TABLE visits ADD COLUMN %s TEXT`, column)

	_, err := db.ExecContext(ctx, stmt)
	if err == nil {
		return ColumnMigration{Column: column, Outcome: ColumnAdded}
	}

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqDuplicateColumn {
		return ColumnMigration{Column: column, Outcome: ColumnExists}
	}

	return ColumnMigration{Column: column, Outcome: ColumnFailed, Err: err}
}
