// internal/app/features/members/routes.go
package members

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/role", h.HandleChangeRole)
	r.Post("/remove", h.HandleRemove)
	return r
}
