package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/najdeno/internal/obs"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, devMode bool) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, DevMode: devMode}
	usersHandler := &UsersHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}
	claimsHandler := &ClaimsHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db}
	imagesHandler := &ImagesHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: auth endpoints rate-limited per IP.
	mux.Handle("POST /api/auth/register", RateLimit(http.HandlerFunc(authHandler.Register), 2, 5))
	mux.Handle("POST /api/auth/login", RateLimit(http.HandlerFunc(authHandler.Login), 2, 5))
	mux.Handle("POST /api/auth/auto-login", RateLimit(http.HandlerFunc(authHandler.AutoLogin), 2, 5))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Account.
	mux.Handle("GET /api/users/me", authMW(http.HandlerFunc(usersHandler.Me)))
	mux.Handle("PUT /api/users/me", authMW(http.HandlerFunc(usersHandler.UpdateMe)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(RequireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("GET /api/users/{id}", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}/roles", authMW(RequireAdmin(http.HandlerFunc(usersHandler.UpdateRoles))))
	mux.Handle("DELETE /api/users/{id}", authMW(RequireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items: browsing is public, mutation is authenticated and checked
	// per item against the ownership rules.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.Handle("GET /api/items/my", authMW(http.HandlerFunc(itemsHandler.My)))
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PATCH /api/items/{id}/status", authMW(http.HandlerFunc(itemsHandler.UpdateStatus)))

	// Claim requests.
	mux.Handle("POST /api/items/{id}/claim-requests", authMW(http.HandlerFunc(claimsHandler.Submit)))
	mux.Handle("GET /api/items/{id}/claim-requests", authMW(http.HandlerFunc(claimsHandler.List)))
	mux.Handle("POST /api/items/{id}/claim-requests/{requestId}/approve", authMW(http.HandlerFunc(claimsHandler.Approve)))
	mux.Handle("POST /api/items/{id}/claim-requests/{requestId}/reject", authMW(http.HandlerFunc(claimsHandler.Reject)))

	// Reports.
	mux.Handle("POST /api/items/{id}/report", authMW(http.HandlerFunc(reportsHandler.Create)))
	mux.Handle("GET /api/reports/my", authMW(http.HandlerFunc(reportsHandler.My)))
	mux.Handle("GET /api/reports", authMW(RequireAdmin(http.HandlerFunc(reportsHandler.List))))
	mux.Handle("DELETE /api/reports/{id}/item", authMW(RequireAdmin(http.HandlerFunc(reportsHandler.DeleteItem))))

	// Images: upload is owner-gated, serving is public.
	mux.Handle("POST /api/images/upload", authMW(http.HandlerFunc(imagesHandler.Upload)))
	mux.HandleFunc("GET /api/images/{ref}", imagesHandler.Get)

	// Metrics scrape endpoint.
	obs.Init()
	mux.Handle("GET /metrics", obs.Handler())

	return LoggingMiddleware(obs.Instrument(mux))
}
