// internal/app/features/clubs/routes.go
package clubs

import (
	"github.com/go-chi/chi/v5"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
)

// Routes mounts the club routes. Typically:
// r.Mount("/clubs", clubs.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public directory
	r.Get("/", h.ServeList)

	// Signed-in routes registered before /{id} so the static segment wins.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("user"))
		pr.Get("/followed", h.ServeFollowed)
		pr.Post("/{id}/follow", h.HandleToggleFollow)
		pr.Get("/{id}/follow", h.ServeFollowStatus)
	})

	r.Get("/{id}", h.ServeDetail)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("club_admin"))
		pr.Put("/{id}", h.HandleUpdate)
	})

	return r
}
