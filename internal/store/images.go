package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

// AddItemImage stores processed image data under an opaque reference and
// appends it to the item's image sequence.
func AddItemImage(ctx context.Context, db *sql.DB, ref string, itemID int64, data []byte, mime string) (*model.Image, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM items WHERE id = ?)`, itemID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if !exists {
		return nil, apperr.ErrNotFound
	}

	var position int
	err = db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM item_images WHERE item_id = ?`, itemID,
	).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("computing image position: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO item_images (ref, item_id, data, mime, position) VALUES (?, ?, ?, ?, ?)`,
		ref, itemID, data, mime, position,
	)
	if err != nil {
		return nil, fmt.Errorf("storing image: %w", err)
	}

	return &model.Image{Ref: ref, MIME: mime, Position: position}, nil
}

// ListItemImages returns an item's image references in upload order.
func ListItemImages(ctx context.Context, db *sql.DB, itemID int64) ([]model.Image, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT ref, mime, position FROM item_images WHERE item_id = ? ORDER BY position`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	images := []model.Image{}
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.Ref, &img.MIME, &img.Position); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// GetImageData returns stored image bytes and MIME type by reference.
func GetImageData(ctx context.Context, db *sql.DB, ref string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM item_images WHERE ref = ?`, ref,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}
	return data, mime, nil
}
