package exam

import (
	"github.com/go-chi/chi/v5"

	"github.com/examforge/examforge/internal/auth"
)

func Routes(handler *Handler) chi.Router {
	r := chi.NewRouter()

	r.With(auth.RequireRole(auth.RoleAdmin)).Post("/", handler.AssignTest)
	r.Get("/", handler.ListMyTests)
	r.Get("/{id}", handler.GetTest)
	r.Post("/{id}/submit", handler.Submit)
	r.Get("/{id}/submission", handler.GetSubmission)

	return r
}

func ExecuteRoutes(handler *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", handler.Execute)
	return r
}
