package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/obs"
	"github.com/erazemk/najdeno/internal/store"
)

// ClaimsHandler handles claim arbitration endpoints.
type ClaimsHandler struct {
	DB *sql.DB
}

type submitClaimRequest struct {
	Message string `json:"message"`
}

func requestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("requestId"), 10, 64)
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request id")
		return 0, false
	}
	return id, true
}

// Submit handles POST /api/items/{id}/claim-requests. The store
// re-reads the item state in the same transaction as the insert, so a
// submission racing a status change fails instead of creating a
// request against a non-OPEN item.
func (h *ClaimsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req submitClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := model.ValidateClaimMessage(req.Message); err != nil {
		jsonError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	cr, err := store.SubmitClaim(r.Context(), h.DB, id, claims.UserID, req.Message)
	if err != nil {
		if errors.Is(err, apperr.ErrItemNotClaimable) {
			obs.CountClaimDecision(obs.ClaimOutcomeConflict)
		}
		jsonError(w, err)
		return
	}

	obs.CountClaimDecision(obs.ClaimOutcomeSubmitted)
	slog.Info("claim submitted", "item", id, "request", cr.ID, "by", claims.Email)
	jsonResponse(w, http.StatusCreated, cr)
}

// List handles GET /api/items/{id}/claim-requests. Owner/admin only;
// pages follow creation order.
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if !h.requireDecider(w, r, id) {
		return
	}

	page, size := pageParams(r)
	result, err := store.ListClaims(r.Context(), h.DB, id, page, size)
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// Approve handles POST /api/items/{id}/claim-requests/{requestId}/approve.
// The request flip and the item transition commit atomically; a racing
// approval on a sibling request observes ItemAlreadyClaimed.
func (h *ClaimsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	reqID, ok := requestID(w, r)
	if !ok {
		return
	}

	if !h.requireDecider(w, r, id) {
		return
	}

	cr, err := store.ApproveClaim(r.Context(), h.DB, id, reqID)
	if err != nil {
		if errors.Is(err, apperr.ErrItemAlreadyClaimed) {
			obs.CountClaimDecision(obs.ClaimOutcomeConflict)
		}
		jsonError(w, err)
		return
	}

	obs.CountClaimDecision(obs.ClaimOutcomeApproved)
	claims := GetClaims(r.Context())
	slog.Info("claim approved", "item", id, "request", reqID, "by", claims.Email)
	jsonResponse(w, http.StatusOK, cr)
}

// Reject handles POST /api/items/{id}/claim-requests/{requestId}/reject.
// Allowed regardless of item status; never affects sibling requests.
func (h *ClaimsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	reqID, ok := requestID(w, r)
	if !ok {
		return
	}

	if !h.requireDecider(w, r, id) {
		return
	}

	cr, err := store.RejectClaim(r.Context(), h.DB, id, reqID)
	if err != nil {
		jsonError(w, err)
		return
	}

	obs.CountClaimDecision(obs.ClaimOutcomeRejected)
	claims := GetClaims(r.Context())
	slog.Info("claim rejected", "item", id, "request", reqID, "by", claims.Email)
	jsonResponse(w, http.StatusOK, cr)
}

// requireDecider checks MARK_CLAIMED permission on the item, the
// capability that gates claim decisions and decision-rendering reads.
func (h *ClaimsHandler) requireDecider(w http.ResponseWriter, r *http.Request, id int64) bool {
	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return false
	}
	if item == nil {
		jsonError(w, apperr.ErrNotFound)
		return false
	}

	claims := GetClaims(r.Context())
	if !auth.CanActOnItem(claims.Identity(), item, auth.ActionMarkClaimed) {
		jsonError(w, apperr.ErrForbidden)
		return false
	}
	return true
}
