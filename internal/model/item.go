package model

import (
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/apperr"
)

// Item represents a posted lost/found record.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Tags        string    `json:"tags,omitempty"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	SoftDeleted bool      `json:"softDeleted"`
	PostedBy    *User     `json:"postedBy,omitempty"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Image is a reference to a stored item photo. References are opaque
// UUIDs; order follows the upload sequence.
type Image struct {
	Ref      string `json:"ref"`
	MIME     string `json:"mime"`
	Position int    `json:"position"`
}

// Item types.
const (
	ItemTypeLost  = "LOST"
	ItemTypeFound = "FOUND"
)

// Item statuses. OPEN is initial; CLAIMED and REMOVED are terminal with
// respect to new claim requests and further status changes.
const (
	ItemStatusOpen    = "OPEN"
	ItemStatusClaimed = "CLAIMED"
	ItemStatusRemoved = "REMOVED"
)

// CanTransition reports whether a status change is legal. The lifecycle
// admits exactly OPEN→CLAIMED and OPEN→REMOVED; same-state transitions
// are not no-ops, they are illegal.
func CanTransition(from, to string) bool {
	if from != ItemStatusOpen {
		return false
	}
	return to == ItemStatusClaimed || to == ItemStatusRemoved
}

// Claimable reports whether the item accepts new claim requests:
// status OPEN and not soft-deleted.
func (i *Item) Claimable() bool {
	return i != nil && i.Status == ItemStatusOpen && !i.SoftDeleted
}

// ItemFields carries the user-editable fields of an item.
type ItemFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Tags        string `json:"tags"`
	Location    string `json:"location"`
}

// Trimmed returns a copy with surrounding whitespace removed from every
// field. Validation and persistence both operate on the trimmed form.
func (f ItemFields) Trimmed() ItemFields {
	return ItemFields{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Type:        strings.TrimSpace(f.Type),
		Tags:        strings.TrimSpace(f.Tags),
		Location:    strings.TrimSpace(f.Location),
	}
}

// Validate checks all item fields and reports every violation at once.
// Called on the trimmed form.
func (f ItemFields) Validate() error {
	fields := map[string]string{}
	if l := len(f.Title); l < 3 || l > 200 {
		fields["title"] = "must be 3-200 characters"
	}
	if f.Description != "" {
		if l := len(f.Description); l < 3 || l > 2000 {
			fields["description"] = "must be 3-2000 characters"
		}
	}
	if len(f.Tags) > 500 {
		fields["tags"] = "must be at most 500 characters"
	}
	if l := len(f.Location); l < 3 || l > 200 {
		fields["location"] = "must be 3-200 characters"
	}
	if f.Type != ItemTypeLost && f.Type != ItemTypeFound {
		fields["type"] = "must be LOST or FOUND"
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}

// ItemFilter narrows item listings.
type ItemFilter struct {
	Type     string
	Status   string
	Query    string
	PostedBy int64
}
