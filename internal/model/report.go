package model

import (
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/apperr"
)

// Report flags an item for moderation. Reports are purely additive;
// moderation acts on the referenced item, not on the report itself.
type Report struct {
	ID              int64     `json:"id"`
	ItemID          int64     `json:"item_id"`
	Item            *Item     `json:"item,omitempty"`
	ReporterID      *int64    `json:"reporter_id,omitempty"`
	ReporterContact string    `json:"reporterContact"`
	Reason          string    `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ValidateReport checks report fields.
func ValidateReport(contact, reason string) error {
	fields := map[string]string{}
	if c := strings.TrimSpace(contact); c == "" || len(c) > 200 {
		fields["reporterContact"] = "must be 1-200 characters"
	}
	if len(reason) > 1000 {
		fields["reason"] = "must be at most 1000 characters"
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}
