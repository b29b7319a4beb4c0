package question

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/pools", h.CreatePool)
	r.Get("/pools", h.ListPools)
	r.Get("/pools/{id}", h.GetPool)
	r.Delete("/pools/{id}", h.DeletePool)
	r.Put("/pools/{id}/default", h.SetDefaultPool)

	return r
}
