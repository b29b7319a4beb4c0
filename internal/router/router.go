package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/examforge/examforge/internal/auth"
	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/history"
	"github.com/examforge/examforge/internal/middlewares"
	"github.com/examforge/examforge/internal/question"
)

type RouterConfig struct {
	QuestionHandler *question.Handler
	HistoryHandler  *history.Handler
	ExamHandler     *exam.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.With(auth.RequireRole(auth.RoleAdmin)).
			Mount("/questions", question.Routes(cfg.QuestionHandler))
		r.Mount("/tests", exam.Routes(cfg.ExamHandler))
		r.Mount("/history", history.Routes(cfg.HistoryHandler))
		r.Mount("/execute", exam.ExecuteRoutes(cfg.ExamHandler))
	})
	return r
}
