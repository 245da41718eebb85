package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Status columns are CHECK-constrained to the lifecycle enums, and the
// partial unique index on claim_requests is the storage-level backstop
// for the "at most one APPROVED request per item" invariant: even a
// buggy caller cannot commit a second approval.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    roles         TEXT NOT NULL DEFAULT '["ROLE_USER"]',
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    title        TEXT NOT NULL,
    description  TEXT,
    type         TEXT NOT NULL CHECK (type IN ('LOST', 'FOUND')),
    tags         TEXT,
    location     TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'OPEN' CHECK (status IN ('OPEN', 'CLAIMED', 'REMOVED')),
    soft_deleted INTEGER NOT NULL DEFAULT 0,
    posted_by    INTEGER NOT NULL REFERENCES users(id),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_posted_by ON items(posted_by);
CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);

CREATE TABLE IF NOT EXISTS item_images (
    ref       TEXT PRIMARY KEY,
    item_id   INTEGER NOT NULL REFERENCES items(id),
    data      BLOB NOT NULL,
    mime      TEXT NOT NULL,
    position  INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_item_images_item ON item_images(item_id, position);

CREATE TABLE IF NOT EXISTS claim_requests (
    id          INTEGER PRIMARY KEY,
    item_id     INTEGER NOT NULL REFERENCES items(id),
    claimant_id INTEGER NOT NULL REFERENCES users(id),
    message     TEXT,
    status      TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_claim_requests_item ON claim_requests(item_id, id);

CREATE UNIQUE INDEX IF NOT EXISTS idx_claim_requests_one_approved
    ON claim_requests(item_id) WHERE status = 'APPROVED';

CREATE TABLE IF NOT EXISTS reports (
    id               INTEGER PRIMARY KEY,
    item_id          INTEGER NOT NULL REFERENCES items(id),
    reporter_id      INTEGER REFERENCES users(id),
    reporter_contact TEXT NOT NULL,
    reason           TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reports_item ON reports(item_id);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
