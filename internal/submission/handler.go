package submission

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

type Handler struct {
	service SubmissionService
}

func NewHandler(s SubmissionService) *Handler {
	return &Handler{service: s}
}

// Submit handles POST /quizzes/{id}/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid submit body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Submit(r.Context(), quizID, dto)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}

	status := http.StatusCreated
	if resp.IsRetake {
		status = http.StatusOK
	}
	config.JSON(w, status, resp)
}

// ListByQuiz handles GET /quizzes/{id}/submissions.
func (h *Handler) ListByQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	subs, err := h.service.ListByQuiz(r.Context(), quizID)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, subs)
}

// GetMine handles GET /quizzes/{id}/submissions/me.
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	sub, err := h.service.GetMine(r.Context(), quizID)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, sub)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, sub)
}

func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	var dto GradeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid grade body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sub, err := h.service.Grade(r.Context(), id, dto)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, sub)
}
