// Package apperr defines the error taxonomy shared by the server handlers
// and the client SDK. Every error crossing the API boundary maps to exactly
// one machine-readable code so callers can branch on the failure kind
// instead of parsing messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for failures that carry no extra structure.
var (
	// ErrUnauthorized means the credential is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but not entitled.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness or already-decided constraint was hit.
	ErrConflict = errors.New("conflict")

	// ErrIllegalTransition means the requested item status change is not
	// in the lifecycle table (including same-state transitions).
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrItemAlreadyClaimed means an approval lost the race: the item left
	// OPEN before the decision landed. Terminal for the losing request.
	ErrItemAlreadyClaimed = errors.New("item already claimed")

	// ErrItemNotClaimable means the item is CLAIMED, REMOVED or soft-deleted
	// and accepts no new claim requests.
	ErrItemNotClaimable = errors.New("item not claimable")

	// ErrSelfClaim means the claimant owns the item.
	ErrSelfClaim = errors.New("cannot claim own item")
)

// ValidationError reports every violated field of a request at once,
// keyed by field name. Recoverable by user correction.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation builds a ValidationError for a single field.
func Validation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// TransportError wraps a network or timeout failure. The outcome of the
// remote operation is unknown; callers must re-fetch authoritative state
// rather than assume success or failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// Wire codes, stable across server and client.
const (
	CodeValidation         = "VALIDATION"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeIllegalTransition  = "ILLEGAL_TRANSITION"
	CodeItemAlreadyClaimed = "ITEM_ALREADY_CLAIMED"
	CodeItemNotClaimable   = "ITEM_NOT_CLAIMABLE"
	CodeSelfClaim          = "SELF_CLAIM"
	CodeInternal           = "INTERNAL"
)

// Code returns the wire code for an error, or CodeInternal for anything
// outside the taxonomy.
func Code(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return CodeValidation
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrIllegalTransition):
		return CodeIllegalTransition
	case errors.Is(err, ErrItemAlreadyClaimed):
		return CodeItemAlreadyClaimed
	case errors.Is(err, ErrItemNotClaimable):
		return CodeItemNotClaimable
	case errors.Is(err, ErrSelfClaim):
		return CodeSelfClaim
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}

// HTTPStatus returns the HTTP status for an error.
func HTTPStatus(err error) int {
	switch Code(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeIllegalTransition, CodeItemAlreadyClaimed,
		CodeItemNotClaimable, CodeSelfClaim:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromCode reconstructs a taxonomy error from its wire form. Used by the
// client SDK to turn API error responses back into typed errors.
func FromCode(code string, fields map[string]string) error {
	switch code {
	case CodeValidation:
		if fields == nil {
			fields = map[string]string{}
		}
		return &ValidationError{Fields: fields}
	case CodeUnauthorized:
		return ErrUnauthorized
	case CodeForbidden:
		return ErrForbidden
	case CodeNotFound:
		return ErrNotFound
	case CodeConflict:
		return ErrConflict
	case CodeIllegalTransition:
		return ErrIllegalTransition
	case CodeItemAlreadyClaimed:
		return ErrItemAlreadyClaimed
	case CodeItemNotClaimable:
		return ErrItemNotClaimable
	case CodeSelfClaim:
		return ErrSelfClaim
	default:
		return fmt.Errorf("server error (%s)", code)
	}
}
