package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/store"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware validates the bearer JWT, checks revocation, and adds
// claims to the request context. This is the authorization boundary:
// route guards and client-side checks are advisory only.
func AuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := bearerClaims(w, r, secret, db)
			if !ok {
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerClaims(w http.ResponseWriter, r *http.Request, secret string, db *sql.DB) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		jsonError(w, apperr.ErrUnauthorized)
		return nil, false
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	claims, err := auth.ValidateToken(secret, tokenStr)
	if err != nil {
		jsonError(w, apperr.ErrUnauthorized)
		return nil, false
	}

	if claims.ID != "" {
		revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
		if err != nil {
			slog.Error("checking token revocation", "error", err)
			jsonError(w, err)
			return nil, false
		}
		if revoked {
			jsonError(w, apperr.ErrUnauthorized)
			return nil, false
		}
	}

	return claims, true
}

// RequireAdmin gates a handler on the ADMIN_AREA capability.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			jsonError(w, apperr.ErrUnauthorized)
			return
		}
		if !auth.CanAccessArea(claims.Identity(), auth.AreaAdmin) {
			jsonError(w, apperr.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// RateLimit applies a token-bucket limiter per client IP. Used on the
// auth endpoints to slow down credential guessing. Idle buckets are
// evicted after ten minutes.
func RateLimit(next http.Handler, perSecond, burst int) http.Handler {
	type bucket struct {
		lim  *rate.Limiter
		seen time.Time
	}

	var mu sync.Mutex
	buckets := map[string]*bucket{}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		mu.Lock()
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
			buckets[ip] = b
		}
		b.seen = time.Now()
		for key, old := range buckets {
			if time.Since(old.seen) > 10*time.Minute {
				delete(buckets, key)
			}
		}
		allowed := b.lim.Allow()
		mu.Unlock()

		if !allowed {
			jsonErrorMsg(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
