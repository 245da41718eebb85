package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// UsersHandler handles account endpoints.
type UsersHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, err)
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// UpdateMe handles PUT /api/users/me. Changing the email changes the
// credential subject, so the current token is revoked and the caller
// must re-authenticate.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req updateProfileRequest
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

	current, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, err)
		return
	}
	if current == nil || current.DeletedAt != nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}

	if err := store.UpdateUserProfile(r.Context(), h.DB, claims.UserID, req.Name, req.Email); err != nil {
		jsonError(w, err)
		return
	}

	emailChanged := current.Email != req.Email
	if emailChanged && claims.ID != "" && claims.ExpiresAt != nil {
		if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
			jsonError(w, err)
			return
		}
		slog.Info("email changed, token revoked", "user", req.Email)
	}

	updated, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

type updateRolesRequest struct {
	Roles []string `json:"roles"`
}

// UpdateRoles handles PUT /api/users/{id}/roles (admin).
func (h *UsersHandler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateRolesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, role := range req.Roles {
		if role != model.RoleAdmin && role != model.RoleUser {
			jsonError(w, apperr.Validation("roles", "unknown role "+role))
			return
		}
	}

	claims := GetClaims(r.Context())
	if claims.UserID == id {
		jsonErrorMsg(w, http.StatusBadRequest, "cannot change own roles")
		return
	}

	if err := store.UpdateUserRoles(r.Context(), h.DB, id, req.Roles); err != nil {
		jsonError(w, err)
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}
	if user == nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}

	slog.Info("user roles changed", "id", id, "roles", req.Roles, "by", claims.Email)
	jsonResponse(w, http.StatusOK, user)
}

// List handles GET /api/users (admin).
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		jsonError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id} (admin).
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}
	if user == nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id} (admin).
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid user id")
		return
	}

	claims := GetClaims(r.Context())
	if claims.UserID == id {
		jsonErrorMsg(w, http.StatusBadRequest, "cannot delete own account")
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		jsonError(w, err)
		return
	}

	slog.Info("user deleted", "id", id, "by", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
