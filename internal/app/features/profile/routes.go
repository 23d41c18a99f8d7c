// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
)

// Routes mounts the profile routes. Typically:
// r.Mount("/profile", profile.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeOwn)
		pr.Put("/", h.HandleUpdate)
		pr.Get("/{email}", h.ServePublic)
	})

	return r
}
