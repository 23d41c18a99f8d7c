// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/go-chi/chi/v5"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
)

// Routes mounts the announcement routes. Typically:
// r.Mount("/announcements", announcements.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeByClub)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("user"))
		pr.Get("/feed", h.ServeFeed)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("club_admin"))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
