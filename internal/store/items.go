package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

const itemColumns = `i.id, i.title, i.description, i.type, i.tags, i.location,
	i.status, i.soft_deleted, i.created_at, i.updated_at,
	u.id, u.name, u.email`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	item := &model.Item{PostedBy: &model.User{}}
	var description, tags sql.NullString
	err := row.Scan(
		&item.ID, &item.Title, &description, &item.Type, &tags, &item.Location,
		&item.Status, &item.SoftDeleted, &item.CreatedAt, &item.UpdatedAt,
		&item.PostedBy.ID, &item.PostedBy.Name, &item.PostedBy.Email,
	)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Tags = tags.String
	return item, nil
}

// CreateItem creates a new item in status OPEN. Fields must already be
// trimmed and validated.
func CreateItem(ctx context.Context, db *sql.DB, fields model.ItemFields, postedBy int64) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, type, tags, location, posted_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fields.Title, fields.Description, fields.Type, fields.Tags, fields.Location, postedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID with its poster and ordered image refs.
// Soft-deleted items remain fetchable; the flag is part of the payload.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i JOIN users u ON u.id = i.posted_by
		 WHERE i.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	images, err := ListItemImages(ctx, db, id)
	if err != nil {
		return nil, err
	}
	item.Images = images
	return item, nil
}

// ListItems returns a page of items matching the filter, newest first.
// Soft-deleted items are excluded from listings.
func ListItems(ctx context.Context, db *sql.DB, filter model.ItemFilter, page, size int) (*model.Page[model.Item], error) {
	page, size = model.ClampPage(page, size)

	where := `i.soft_deleted = 0`
	args := []any{}
	if filter.Type != "" {
		where += ` AND i.type = ?`
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		where += ` AND i.status = ?`
		args = append(args, filter.Status)
	}
	if filter.PostedBy != 0 {
		where += ` AND i.posted_by = ?`
		args = append(args, filter.PostedBy)
	}
	if filter.Query != "" {
		where += ` AND (i.title LIKE ? OR i.description LIKE ? OR i.tags LIKE ?)`
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern, pattern)
	}

	var total int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items i WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i JOIN users u ON u.id = i.posted_by
		 WHERE `+where+`
		 ORDER BY i.created_at DESC, i.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, size, page*size)...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.Page[model.Item]{Content: items, TotalElements: total, Page: page, Size: size}, nil
}

// UpdateItemFields updates an item's user-editable fields. Status and
// soft_deleted are deliberately untouchable here; they change only
// through TransitionItemStatus and SoftDeleteItem.
func UpdateItemFields(ctx context.Context, db *sql.DB, id int64, fields model.ItemFields) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, type = ?, tags = ?, location = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND soft_deleted = 0`,
		fields.Title, fields.Description, fields.Type, fields.Tags, fields.Location, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// TransitionItemStatus moves an item through the lifecycle table. The
// read and write happen in one transaction so a concurrent transition
// cannot slip between the legality check and the update.
func TransitionItemStatus(ctx context.Context, db *sql.DB, id int64, newStatus string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	var softDeleted bool
	err = tx.QueryRowContext(ctx,
		`SELECT status, soft_deleted FROM items WHERE id = ?`, id,
	).Scan(&current, &softDeleted)
	if err == sql.ErrNoRows {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading item status: %w", err)
	}

	if softDeleted || !model.CanTransition(current, newStatus) {
		return fmt.Errorf("%s -> %s: %w", current, newStatus, apperr.ErrIllegalTransition)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newStatus, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}

	return tx.Commit()
}

// SoftDeleteItem sets the moderation removal flag. Distinct from the
// REMOVED status: it hides the item and freezes its lifecycle without
// recording an owner/admin delete.
func SoftDeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET soft_deleted = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND soft_deleted = 0`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft-deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft-deleting item: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
