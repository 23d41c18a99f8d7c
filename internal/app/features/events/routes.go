// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
)

// Routes mounts the event routes. Typically:
// r.Mount("/events", events.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("user"))
		pr.Get("/registered", h.ServeMyRegistrations)
		pr.Post("/{id}/register", h.HandleRegister)
		pr.Delete("/{id}/register", h.HandleUnregister)
	})

	r.Get("/{id}", h.ServeDetail)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole("club_admin"))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Get("/{id}/attendees", h.ServeAttendees)
		pr.Get("/{id}/attendees.csv", h.ServeAttendeesCSV)
	})

	return r
}
