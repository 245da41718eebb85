// Package store implements persistence for users, items, claim requests
// and reports on top of database/sql. The claim arbitration invariants
// are enforced here, inside transactions, so that concurrent API calls
// against the same item serialize on the database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

// isUniqueViolation detects a SQLite unique-constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func encodeRoles(roles []string) string {
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}
	data, _ := json.Marshal(roles)
	return string(data)
}

func decodeRoles(raw string) []string {
	var roles []string
	if err := json.Unmarshal([]byte(raw), &roles); err != nil || len(roles) == 0 {
		return []string{model.RoleUser}
	}
	return roles
}

// CreateUser creates a new user. Returns apperr.ErrConflict if the email
// is already registered to an active account.
func CreateUser(ctx context.Context, db *sql.DB, name, email, passwordHash string, roles []string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, roles) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, encodeRoles(roles),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("email %s: %w", email, apperr.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	var roles string
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, roles, created_at, deleted_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roles, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Roles = decodeRoles(roles)
	return u, nil
}

// GetUserByEmail returns an active user by email.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u := &model.User{}
	var roles string
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, roles, created_at, deleted_at
		 FROM users WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roles, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	u.Roles = decodeRoles(roles)
	return u, nil
}

// ListUsers returns all non-deleted users.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, roles, created_at, deleted_at
		 FROM users WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var roles string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roles, &u.CreatedAt, &u.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Roles = decodeRoles(roles)
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfile updates a user's name and email. Returns
// apperr.ErrConflict when the new email belongs to another active user.
func UpdateUserProfile(ctx context.Context, db *sql.DB, id int64, name, email string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ? WHERE id = ? AND deleted_at IS NULL`,
		name, email, id,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", email, apperr.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// UpdateUserRoles replaces a user's role set.
func UpdateUserRoles(ctx context.Context, db *sql.DB, id int64, roles []string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET roles = ? WHERE id = ? AND deleted_at IS NULL`,
		encodeRoles(roles), id,
	)
	if err != nil {
		return fmt.Errorf("updating user roles: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
