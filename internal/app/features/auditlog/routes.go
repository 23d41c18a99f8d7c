// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
)

// Routes mounts the audit log routes. Typically:
// r.Mount("/audit", auditlog.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("club_admin"))
		pr.Get("/", h.ServeClubEvents)
	})

	return r
}
