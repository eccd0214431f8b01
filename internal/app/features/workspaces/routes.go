// internal/app/features/workspaces/routes.go
package workspaces

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/search", h.ServeSearch)
	r.Post("/join", h.HandleJoin)
	return r
}
