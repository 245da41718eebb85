package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// ItemsHandler handles item lifecycle endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type statusRequest struct {
	Status string `json:"status"`
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return model.ClampPage(page, size)
}

// itemID parses the {id} path value, writing an error on failure.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

// fetchForAction loads an item and checks the caller's permission for
// the given action. The server-side evaluator is authoritative; any UI
// check before this point was advisory.
func (h *ItemsHandler) fetchForAction(w http.ResponseWriter, r *http.Request, id int64, action auth.ItemAction) (*model.Item, bool) {
	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return nil, false
	}
	if item == nil {
		jsonError(w, apperr.ErrNotFound)
		return nil, false
	}

	claims := GetClaims(r.Context())
	var identity *model.User
	if claims != nil {
		identity = claims.Identity()
	}
	if !auth.CanActOnItem(identity, item, action) {
		jsonError(w, apperr.ErrForbidden)
		return nil, false
	}
	return item, true
}

// List handles GET /api/items. Public read with filters and paging.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ItemFilter{
		Type:   q.Get("type"),
		Status: q.Get("status"),
		Query:  q.Get("q"),
	}
	page, size := pageParams(r)

	result, err := store.ListItems(r.Context(), h.DB, filter, page, size)
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// My handles GET /api/items/my.
func (h *ItemsHandler) My(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	page, size := pageParams(r)

	result, err := store.ListItems(r.Context(), h.DB,
		model.ItemFilter{PostedBy: claims.UserID}, page, size)
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// Get handles GET /api/items/{id}. Public read.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}
	if item == nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items. Validation rejects the whole request
// with every violated field; nothing is partially persisted.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var fields model.ItemFields
	if err := decodeJSON(r, &fields); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields = fields.Trimmed()
	if err := fields.Validate(); err != nil {
		jsonError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	item, err := store.CreateItem(r.Context(), h.DB, fields, claims.UserID)
	if err != nil {
		jsonError(w, err)
		return
	}

	slog.Info("item created", "id", item.ID, "type", item.Type, "by", claims.Email)
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/{id}. Owner or admin only; does not
// touch status or the soft-delete flag.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var fields model.ItemFields
	if err := decodeJSON(r, &fields); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields = fields.Trimmed()
	if err := fields.Validate(); err != nil {
		jsonError(w, err)
		return
	}

	if _, ok := h.fetchForAction(w, r, id, auth.ActionEdit); !ok {
		return
	}

	if err := store.UpdateItemFields(r.Context(), h.DB, id, fields); err != nil {
		jsonError(w, err)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}: the owner/admin hard delete,
// transitioning the item to REMOVED.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if _, ok := h.fetchForAction(w, r, id, auth.ActionDelete); !ok {
		return
	}

	if err := store.TransitionItemStatus(r.Context(), h.DB, id, model.ItemStatusRemoved); err != nil {
		jsonError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item removed", "id", id, "by", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item removed"})
}

// UpdateStatus handles PATCH /api/items/{id}/status. The permission
// depends on the target status: CLAIMED needs MARK_CLAIMED, REMOVED
// needs DELETE. The lifecycle table decides legality after that.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action := auth.ActionMarkClaimed
	if req.Status == model.ItemStatusRemoved {
		action = auth.ActionDelete
	}
	if _, ok := h.fetchForAction(w, r, id, action); !ok {
		return
	}

	if err := store.TransitionItemStatus(r.Context(), h.DB, id, req.Status); err != nil {
		jsonError(w, err)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("item status changed", "id", id, "status", req.Status, "by", claims.Email)
	jsonResponse(w, http.StatusOK, item)
}
