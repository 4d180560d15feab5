package quiz

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

// CreateQuiz handles POST /modules/{id}/quizzes.
func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	moduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}

	var in QuizInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.WithError(err).Warn("Invalid quiz body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q, err := h.service.CreateQuiz(r.Context(), moduleID, in)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

// ListQuizzes handles GET /modules/{id}/quizzes.
func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	moduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid module id", http.StatusBadRequest)
		return
	}

	quizzes, err := h.service.ListQuizzes(r.Context(), moduleID)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, quizzes)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	q, err := h.service.GetQuiz(r.Context(), id)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	var in QuizInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.WithError(err).Warn("Invalid quiz body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q, err := h.service.UpdateQuiz(r.Context(), id, in)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteQuiz(r.Context(), id); err != nil {
		apperr.Respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
