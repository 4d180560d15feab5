package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
)

// Routes serves /quizzes. The module scoped create and list endpoints are
// registered by the router under /modules/{id}/quizzes.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetQuiz)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin))
		r.Put("/{id}", h.UpdateQuiz)
		r.Delete("/{id}", h.DeleteQuiz)
	})
	return r
}
