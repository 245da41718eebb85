package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/obs"
	"github.com/erazemk/najdeno/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string

	// DevMode enables the auto-login endpoint used by local frontends.
	DevMode bool
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type autoLoginRequest struct {
	UserID int64 `json:"userId"`
}

// sessionResponse is the {token, identity} pair a client stores as its
// session.
type sessionResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := model.ValidateProfile(req.Name, req.Email); err != nil {
		jsonError(w, err)
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, err)
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Name, req.Email, string(hash), []string{model.RoleUser})
	if err != nil {
		jsonError(w, err)
		return
	}

	slog.Info("user registered", "user", user.Email)
	jsonResponse(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		jsonErrorMsg(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		jsonError(w, err)
		return
	}
	if user == nil {
		obs.CountLogin("failed")
		jsonError(w, apperr.ErrUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		obs.CountLogin("failed")
		jsonError(w, apperr.ErrUnauthorized)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user)
	if err != nil {
		jsonError(w, err)
		return
	}

	obs.CountLogin("ok")
	slog.Info("user logged in", "user", user.Email)
	jsonResponse(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// AutoLogin handles POST /api/auth/auto-login. Development convenience:
// issues a session for an arbitrary user without a password. Disabled
// outside dev mode.
func (h *AuthHandler) AutoLogin(w http.ResponseWriter, r *http.Request) {
	if !h.DevMode {
		jsonError(w, apperr.ErrNotFound)
		return
	}

	var req autoLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, req.UserID)
	if err != nil {
		jsonError(w, err)
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user)
	if err != nil {
		jsonError(w, err)
		return
	}

	slog.Warn("auto-login issued", "user", user.Email)
	jsonResponse(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PUT /api/auth/password. Requires the current
// password; the token stays valid since the credential subject is
// unchanged.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		jsonError(w, err)
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, err)
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		jsonError(w, apperr.ErrUnauthorized)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, err)
		return
	}
	if err := store.UpdateUserPassword(r.Context(), h.DB, claims.UserID, string(hash)); err != nil {
		jsonError(w, err)
		return
	}

	slog.Info("password changed", "user", user.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// Logout handles POST /api/auth/logout: revokes the current token's JTI.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, apperr.ErrUnauthorized)
		return
	}

	if claims.ID != "" && claims.ExpiresAt != nil {
		if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
			jsonError(w, err)
			return
		}
	}

	slog.Info("user logged out", "user", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
