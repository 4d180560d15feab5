package content

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

// multipartOverhead leaves room for part headers on top of the file limit.
const multipartOverhead = 1 << 20

type Handler struct {
	service  ContentService
	maxBytes int64
}

func NewHandler(s ContentService, maxBytes int64) *Handler {
	return &Handler{service: s, maxBytes: maxBytes}
}

// Upload handles POST /modules/{id}/files/{target} with a single "file" part.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	moduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}
	target := Target(chi.URLParam(r, "target"))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	reader, err := r.MultipartReader()
	if err != nil {
		log.WithError(err).Warn("Upload is not multipart")
		http.Error(w, "expected multipart/form-data", http.StatusBadRequest)
		return
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			apperr.Respond(w, r, uploadError(err))
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		desc, err := h.service.Upload(r.Context(), moduleID, target, part.FileName(), part)
		part.Close()
		if err != nil {
			apperr.Respond(w, r, uploadError(err))
			return
		}
		config.JSON(w, http.StatusCreated, desc)
		return
	}

	verr := apperr.NewValidation()
	verr.Add("file", "is required")
	apperr.Respond(w, r, verr)
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrFileTooLarge
	}
	return err
}

// List handles GET /modules/{id}/files?target=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	moduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}

	files, err := h.service.List(r.Context(), moduleID, Target(r.URL.Query().Get("target")))
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, files)
}

// Commit handles POST /modules/{id}/files/commit.
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	moduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}

	n, err := h.service.Commit(r.Context(), moduleID)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, CommitResponse{Committed: n})
}

// Discard handles DELETE /modules/{id}/files/staged.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	moduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}

	n, err := h.service.Discard(r.Context(), moduleID)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, DiscardResponse{Discarded: n})
}

// Download streams the file inline, or as an attachment with ?download=true.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	f, body, err := h.service.Open(r.Context(), id)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	defer body.Close()

	disposition := "inline"
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", f.FileType)
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": f.OriginalName}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Download interrupted")
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		apperr.Respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
