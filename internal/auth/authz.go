package auth

import "github.com/erazemk/najdeno/internal/model"

// ItemAction is an operation on a single item.
type ItemAction string

// Item actions.
const (
	ActionView           ItemAction = "VIEW"
	ActionEdit           ItemAction = "EDIT"
	ActionDelete         ItemAction = "DELETE"
	ActionMarkClaimed    ItemAction = "MARK_CLAIMED"
	ActionModerateReport ItemAction = "MODERATE_REPORT"
)

// Area is a role-scoped navigation area.
type Area string

// Areas.
const (
	AreaAdmin Area = "ADMIN_AREA"
	AreaUser  Area = "USER_AREA"
)

// CanActOnItem reports whether the identity may perform the action on the
// item. This is the single source of truth for item-level authorization:
// handlers re-check it server-side, and UI-side checks are a convenience
// only. Pure predicate; a nil identity always evaluates to false.
func CanActOnItem(identity *model.User, item *model.Item, action ItemAction) bool {
	if identity == nil || item == nil {
		return false
	}
	switch action {
	case ActionView:
		return true
	case ActionEdit, ActionDelete, ActionMarkClaimed:
		if identity.IsAdmin() {
			return true
		}
		return item.PostedBy != nil && identity.ID == item.PostedBy.ID
	case ActionModerateReport:
		return identity.IsAdmin()
	default:
		return false
	}
}

// CanAccessArea reports whether the identity may enter a navigation area.
// Pure predicate; a nil identity always evaluates to false.
func CanAccessArea(identity *model.User, area Area) bool {
	if identity == nil {
		return false
	}
	switch area {
	case AreaAdmin:
		return identity.IsAdmin()
	case AreaUser:
		return true
	default:
		return false
	}
}
