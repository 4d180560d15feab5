package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
	"github.com/saulo-duarte/classroom-lambda/internal/content"
	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
	"github.com/saulo-duarte/classroom-lambda/internal/middlewares"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
	"github.com/saulo-duarte/classroom-lambda/internal/submission"
	"github.com/saulo-duarte/classroom-lambda/internal/user"
)

type RouterConfig struct {
	CorsOrigins       []string
	UserHandler       *user.Handler
	ModuleHandler     *coursemodule.Handler
	QuizHandler       *quiz.Handler
	SubmissionHandler *submission.Handler
	ContentHandler    *content.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware(cfg.CorsOrigins))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.UserHandler.Login)
			r.Post("/logout", auth.NewHandler().Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Mount("/users", user.Routes(cfg.UserHandler))
			r.Mount("/modules", coursemodule.Routes(cfg.ModuleHandler))
			r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
			r.Mount("/submissions", submission.Routes(cfg.SubmissionHandler))
			r.Mount("/files", content.Routes(cfg.ContentHandler))

			r.Get("/modules/{id}/quizzes", cfg.QuizHandler.ListQuizzes)
			r.With(auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin)).Post("/modules/{id}/quizzes", cfg.QuizHandler.CreateQuiz)
			r.Mount("/modules/{id}/files", content.ModuleRoutes(cfg.ContentHandler))

			r.With(auth.RequireRole(auth.RoleStudent)).Post("/quizzes/{id}/submit", cfg.SubmissionHandler.Submit)
			r.With(auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin)).Get("/quizzes/{id}/submissions", cfg.SubmissionHandler.ListByQuiz)
			r.Get("/quizzes/{id}/submissions/me", cfg.SubmissionHandler.GetMine)
		})
	})
	return r
}
