package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
)

// itemClaimState is the slice of item state the arbitration rules read.
type itemClaimState struct {
	status      string
	softDeleted bool
	postedBy    int64
}

func readItemClaimState(ctx context.Context, tx *sql.Tx, itemID int64) (*itemClaimState, error) {
	var s itemClaimState
	err := tx.QueryRowContext(ctx,
		`SELECT status, soft_deleted, posted_by FROM items WHERE id = ?`, itemID,
	).Scan(&s.status, &s.softDeleted, &s.postedBy)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading item state: %w", err)
	}
	return &s, nil
}

// SubmitClaim creates a PENDING claim request. The item state is read in
// the same transaction as the insert: a submission racing a concurrent
// transition to CLAIMED or REMOVED fails with ErrItemNotClaimable
// instead of creating a request against a now-invalid item.
func SubmitClaim(ctx context.Context, db *sql.DB, itemID, claimantID int64, message string) (*model.ClaimRequest, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	state, err := readItemClaimState(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if state.status != model.ItemStatusOpen || state.softDeleted {
		return nil, apperr.ErrItemNotClaimable
	}
	if state.postedBy == claimantID {
		return nil, apperr.ErrSelfClaim
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO claim_requests (item_id, claimant_id, message) VALUES (?, ?, ?)`,
		itemID, claimantID, message,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim request id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim request: %w", err)
	}

	return GetClaim(ctx, db, itemID, id)
}

// ApproveClaim approves a PENDING request and transitions its item to
// CLAIMED as one atomic unit. Exactly one approval can ever succeed per
// item: the request update and the status change commit together, and a
// later approval finds the item no longer OPEN and fails with
// ErrItemAlreadyClaimed, leaving the losing request PENDING.
func ApproveClaim(ctx context.Context, db *sql.DB, itemID, requestID int64) (*model.ClaimRequest, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	status, err := readClaimStatus(ctx, tx, itemID, requestID)
	if err != nil {
		return nil, err
	}
	if status != model.ClaimStatusPending {
		return nil, fmt.Errorf("request already %s: %w", status, apperr.ErrConflict)
	}

	state, err := readItemClaimState(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if state.softDeleted {
		return nil, apperr.ErrItemNotClaimable
	}
	if state.status != model.ItemStatusOpen {
		return nil, apperr.ErrItemAlreadyClaimed
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE claim_requests SET status = ? WHERE id = ?`,
		model.ClaimStatusApproved, requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("approving claim request: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.ItemStatusClaimed, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	return GetClaim(ctx, db, itemID, requestID)
}

// RejectClaim rejects a PENDING request. Allowed regardless of the
// item's status; rejecting one request never affects its siblings.
func RejectClaim(ctx context.Context, db *sql.DB, itemID, requestID int64) (*model.ClaimRequest, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	status, err := readClaimStatus(ctx, tx, itemID, requestID)
	if err != nil {
		return nil, err
	}
	if status != model.ClaimStatusPending {
		return nil, fmt.Errorf("request already %s: %w", status, apperr.ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE claim_requests SET status = ? WHERE id = ?`,
		model.ClaimStatusRejected, requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("rejecting claim request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rejection: %w", err)
	}

	return GetClaim(ctx, db, itemID, requestID)
}

func readClaimStatus(ctx context.Context, tx *sql.Tx, itemID, requestID int64) (string, error) {
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM claim_requests WHERE id = ? AND item_id = ?`,
		requestID, itemID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading claim request: %w", err)
	}
	return status, nil
}

// GetClaim returns a claim request scoped to its item, with the claimant.
func GetClaim(ctx context.Context, db *sql.DB, itemID, requestID int64) (*model.ClaimRequest, error) {
	cr := &model.ClaimRequest{Claimant: &model.User{}}
	var message sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT cr.id, cr.item_id, cr.message, cr.status, cr.created_at,
		        u.id, u.name, u.email
		 FROM claim_requests cr JOIN users u ON u.id = cr.claimant_id
		 WHERE cr.id = ? AND cr.item_id = ?`,
		requestID, itemID,
	).Scan(&cr.ID, &cr.ItemID, &message, &cr.Status, &cr.CreatedAt,
		&cr.Claimant.ID, &cr.Claimant.Name, &cr.Claimant.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim request: %w", err)
	}
	cr.Message = message.String
	return cr, nil
}

// ListClaims returns a page of an item's claim requests in creation order.
func ListClaims(ctx context.Context, db *sql.DB, itemID int64, page, size int) (*model.Page[model.ClaimRequest], error) {
	page, size = model.ClampPage(page, size)

	var total int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claim_requests WHERE item_id = ?`, itemID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting claim requests: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT cr.id, cr.item_id, cr.message, cr.status, cr.created_at,
		        u.id, u.name, u.email
		 FROM claim_requests cr JOIN users u ON u.id = cr.claimant_id
		 WHERE cr.item_id = ?
		 ORDER BY cr.id
		 LIMIT ? OFFSET ?`,
		itemID, size, page*size,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claim requests: %w", err)
	}
	defer rows.Close()

	requests := []model.ClaimRequest{}
	for rows.Next() {
		cr := model.ClaimRequest{Claimant: &model.User{}}
		var message sql.NullString
		if err := rows.Scan(&cr.ID, &cr.ItemID, &message, &cr.Status, &cr.CreatedAt,
			&cr.Claimant.ID, &cr.Claimant.Name, &cr.Claimant.Email); err != nil {
			return nil, fmt.Errorf("scanning claim request: %w", err)
		}
		cr.Message = message.String
		requests = append(requests, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.Page[model.ClaimRequest]{Content: requests, TotalElements: total, Page: page, Size: size}, nil
}
