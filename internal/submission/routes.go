package submission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
)

// Routes serves /submissions. The quiz scoped endpoints are registered by
// the router under /quizzes/{id}.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/{id}", h.Get)
	r.With(auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin)).Put("/{id}/grade", h.Grade)
	return r
}
