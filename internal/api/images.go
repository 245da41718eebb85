package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/store"
)

// ImagesHandler handles image upload and serving.
type ImagesHandler struct {
	DB *sql.DB
}

// Upload handles POST /api/images/upload?itemId=N. Only the item's
// owner or an admin may attach images. The pipeline sniffs the real
// format and re-encodes, so client-supplied bytes are never served
// back verbatim.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	itemIDStr := r.URL.Query().Get("itemId")
	id, err := strconv.ParseInt(itemIDStr, 10, 64)
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "itemId query parameter required")
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

	claims := GetClaims(r.Context())
	if !auth.CanActOnItem(claims.Identity(), item, auth.ActionEdit) {
		jsonError(w, apperr.ErrForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		jsonErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}

	ref := uuid.NewString()
	img, err := store.AddItemImage(r.Context(), h.DB, ref, id, processed.Data, processed.MIME)
	if err != nil {
		jsonError(w, err)
		return
	}

	slog.Info("image uploaded", "item", id, "ref", ref, "by", claims.Email)
	jsonResponse(w, http.StatusCreated, img)
}

// Get handles GET /api/images/{ref}. Public, cacheable.
func (h *ImagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	data, mime, err := store.GetImageData(r.Context(), h.DB, ref)
	if err != nil {
		jsonError(w, err)
		return
	}
	if data == nil {
		jsonError(w, apperr.ErrNotFound)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
