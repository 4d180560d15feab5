package coursemodule

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

type Handler struct {
	service ModuleService
}

func NewHandler(s ModuleService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateModuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid create module body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	m, err := h.service.Create(r.Context(), dto)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, m)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	modules, err := h.service.List(r.Context())
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, modules)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, m)
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}

	if err := h.service.Enroll(r.Context(), id); err != nil {
		apperr.Respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
