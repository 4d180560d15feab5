package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
)

// Routes serves /files.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/{id}", h.Download)
	r.With(auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin)).Delete("/{id}", h.Delete)
	return r
}

// ModuleRoutes serves /modules/{id}/files.
func ModuleRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin))
		r.Post("/commit", h.Commit)
		r.Delete("/staged", h.Discard)
		r.Post("/{target}", h.Upload)
	})
	return r
}
