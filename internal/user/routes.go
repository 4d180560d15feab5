package user

import (
	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.GetUser)
	r.Put("/me/password", h.ChangePassword)
	r.With(auth.RequireRole(auth.RoleAdmin)).Post("/", h.CreateUser)
	return r
}
