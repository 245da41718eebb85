package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

// CreateReport files a report against an item. Reports are additive and
// have no lifecycle of their own; moderation acts on the referenced item.
func CreateReport(ctx context.Context, db *sql.DB, itemID int64, reporterID *int64, contact, reason string) (*model.Report, error) {
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

	result, err := db.ExecContext(ctx,
		`INSERT INTO reports (item_id, reporter_id, reporter_contact, reason)
		 VALUES (?, ?, ?, ?)`,
		itemID, reporterID, contact, reason,
	)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting report id: %w", err)
	}

	return GetReport(ctx, db, id)
}

// GetReport returns a report by ID with its target item summary.
func GetReport(ctx context.Context, db *sql.DB, id int64) (*model.Report, error) {
	r := &model.Report{Item: &model.Item{}}
	var reason sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT r.id, r.item_id, r.reporter_id, r.reporter_contact, r.reason, r.created_at,
		        i.id, i.title, i.status, i.soft_deleted
		 FROM reports r JOIN items i ON i.id = r.item_id
		 WHERE r.id = ?`, id,
	).Scan(&r.ID, &r.ItemID, &r.ReporterID, &r.ReporterContact, &reason, &r.CreatedAt,
		&r.Item.ID, &r.Item.Title, &r.Item.Status, &r.Item.SoftDeleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}
	r.Reason = reason.String
	return r, nil
}

// ListReports returns a page of all reports, newest first.
func ListReports(ctx context.Context, db *sql.DB, page, size int) (*model.Page[model.Report], error) {
	return listReports(ctx, db, ``, nil, page, size)
}

// ListReportsByReporter returns a page of the reports a user has filed.
func ListReportsByReporter(ctx context.Context, db *sql.DB, reporterID int64, page, size int) (*model.Page[model.Report], error) {
	return listReports(ctx, db, `WHERE r.reporter_id = ?`, []any{reporterID}, page, size)
}

func listReports(ctx context.Context, db *sql.DB, where string, args []any, page, size int) (*model.Page[model.Report], error) {
	page, size = model.ClampPage(page, size)

	var total int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports r `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting reports: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.item_id, r.reporter_id, r.reporter_contact, r.reason, r.created_at,
		        i.id, i.title, i.status, i.soft_deleted
		 FROM reports r JOIN items i ON i.id = r.item_id `+where+`
		 ORDER BY r.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, size, page*size)...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		r := model.Report{Item: &model.Item{}}
		var reason sql.NullString
		if err := rows.Scan(&r.ID, &r.ItemID, &r.ReporterID, &r.ReporterContact, &reason, &r.CreatedAt,
			&r.Item.ID, &r.Item.Title, &r.Item.Status, &r.Item.SoftDeleted); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r.Reason = reason.String
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.Page[model.Report]{Content: reports, TotalElements: total, Page: page, Size: size}, nil
}
