// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account routes. Typically:
// r.Mount("/auth", accounts.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.HandleSignup)
	r.Post("/club-signup", h.HandleClubSignup)
	r.Post("/signin", h.HandleSignin)
	r.Post("/signout", h.HandleSignout)

	return r
}
