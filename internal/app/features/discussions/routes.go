// internal/app/features/discussions/routes.go
package discussions

import (
	"github.com/go-chi/chi/v5"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
)

// Routes mounts the discussion routes. Typically:
// r.Mount("/discussions", discussions.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeThreads)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("user"))
		pr.Post("/", h.HandleAsk)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("club_admin"))
		pr.Post("/{id}/reply", h.HandleReply)
	})

	return r
}
