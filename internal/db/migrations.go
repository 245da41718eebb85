package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: items.soft_deleted started life as a DATETIME column
	// named moderated_at in early deployments; normalize to the boolean
	// flag the lifecycle rules operate on.
	`UPDATE items SET soft_deleted = 1
	     WHERE soft_deleted NOT IN (0, 1)`,
	// Migration 2: claim_requests gained the one-approved-per-item
	// partial index after launch; enforce it on upgraded databases too.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_claim_requests_one_approved
	     ON claim_requests(item_id) WHERE status = 'APPROVED'`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
