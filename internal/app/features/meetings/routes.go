// internal/app/features/meetings/routes.go
package meetings

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/member-search", h.ServeMemberSearch)
	r.Post("/books", h.HandleCreateBook)
	r.Get("/{meetingID}", h.ServeDetail)
	r.Post("/{meetingID}/info", h.HandleUpdateInfo)
	r.Post("/{meetingID}/note", h.HandleSaveNote)
	return r
}
