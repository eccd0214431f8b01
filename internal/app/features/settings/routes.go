// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServePage)
	r.Post("/profile", h.HandleProfile)
	r.Post("/workspace", h.HandleWorkspace)
	r.Post("/delete", h.HandleDelete)
	return r
}
