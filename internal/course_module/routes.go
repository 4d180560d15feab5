package coursemodule

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.With(auth.RequireRole(auth.RoleAdmin)).Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.With(auth.RequireRole(auth.RoleStudent)).Post("/{id}/enroll", h.Enroll)
	return r
}
