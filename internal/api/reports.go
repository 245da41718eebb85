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

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	DB *sql.DB
}

type createReportRequest struct {
	ReporterContact string `json:"reporterContact"`
	Reason          string `json:"reason"`
}

// Create handles POST /api/items/{id}/report.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req createReportRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.ReporterContact = strings.TrimSpace(req.ReporterContact)
	if err := model.ValidateReport(req.ReporterContact, req.Reason); err != nil {
		jsonError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	report, err := store.CreateReport(r.Context(), h.DB, id, &claims.UserID, req.ReporterContact, req.Reason)
	if err != nil {
		jsonError(w, err)
		return
	}

	slog.Info("report filed", "item", id, "by", claims.Email)
	jsonResponse(w, http.StatusCreated, report)
}

// List handles GET /api/reports (admin).
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := store.ListReports(r.Context(), h.DB, page, size)
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// My handles GET /api/reports/my.
func (h *ReportsHandler) My(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	page, size := pageParams(r)
	result, err := store.ListReportsByReporter(r.Context(), h.DB, claims.UserID, page, size)
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// DeleteItem handles DELETE /api/reports/{id}/item (admin): the
// moderation removal path. Soft-deletes the reported item, which is
// distinct from the REMOVED status an owner delete sets.
func (h *ReportsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := store.GetReport(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, err)
		return
	}
	if report == nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}

	if err := store.SoftDeleteItem(r.Context(), h.DB, report.ItemID); err != nil {
		jsonError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("reported item removed", "report", id, "item", report.ItemID, "by", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "reported item removed"})
}
