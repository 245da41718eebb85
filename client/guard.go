package client

import (
	"strings"

	"github.com/erazemk/najdeno/internal/auth"
)

// RouteDecision is the outcome of a navigation check.
type RouteDecision struct {
	Allowed    bool
	RedirectTo string
}

// PublicLanding is where denied navigations are redirected.
const PublicLanding = "/"

// EvaluateRoute gates navigation to role-scoped areas. Admin paths need
// an admin identity; user paths and the creation form need any session.
// This is advisory routing only, never the authorization boundary: the
// server re-checks every operation.
func EvaluateRoute(path string, session *Session) RouteDecision {
	deny := RouteDecision{Allowed: false, RedirectTo: PublicLanding}

	switch {
	case strings.HasPrefix(path, "/admin"):
		if !session.Authenticated() || !auth.CanAccessArea(session.Identity, auth.AreaAdmin) {
			return deny
		}
	case strings.HasPrefix(path, "/user"), strings.HasPrefix(path, "/create"):
		if !session.Authenticated() || !auth.CanAccessArea(session.Identity, auth.AreaUser) {
			return deny
		}
	}
	return RouteDecision{Allowed: true}
}
