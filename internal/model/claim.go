package model

import (
	"time"

	"github.com/erazemk/najdeno/internal/apperr"
)

// ClaimRequest is a claimant's bid to be matched with an item. Each
// request belongs to exactly one item and one claimant.
type ClaimRequest struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Claimant  *User     `json:"claimant,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Claim request statuses. PENDING is initial; APPROVED and REJECTED are
// terminal. At most one request per item may ever reach APPROVED.
const (
	ClaimStatusPending  = "PENDING"
	ClaimStatusApproved = "APPROVED"
	ClaimStatusRejected = "REJECTED"
)

// MaxClaimMessageLen bounds the optional claimant message.
const MaxClaimMessageLen = 1000

// ValidateClaimMessage checks the optional message length.
func ValidateClaimMessage(message string) error {
	if len(message) > MaxClaimMessageLen {
		return apperr.Validation("message", "must be at most 1000 characters")
	}
	return nil
}
