// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/normalize"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.uber.org/zap"
)

type updateRequest struct {
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Year       string `json:"year"`
}

// publicProfile is what other signed-in users get to see. No role, no club
// binding, no timestamps.
type publicProfile struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	Year       string `json:"year,omitempty"`
}

// ServeOwn handles GET /profile: the caller's full account document.
func (h *Handler) ServeOwn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, _ := auth.CurrentUser(r)
	user, err := h.Users.GetByEmail(ctx, u.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "account not found")
			return
		}
		h.Log.Error("profile lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]models.User{"user": user})
}

// HandleUpdate handles PUT /profile. Email and role are immutable; empty
// fields keep their current values.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, _ := auth.CurrentUser(r)
	err := h.Users.UpdateProfile(ctx, u.Email, models.User{
		FullName:   normalize.Name(req.FullName),
		Department: strings.TrimSpace(req.Department),
		Year:       strings.TrimSpace(req.Year),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "account not found")
			return
		}
		h.Log.Error("profile update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update profile")
		return
	}

	user, err := h.Users.GetByEmail(ctx, u.Email)
	if err != nil {
		h.Log.Error("profile reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]models.User{"user": user})
}

// ServePublic handles GET /profile/{email}: another user's public fields.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	email := normalize.Email(chi.URLParam(r, "email"))
	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("profile lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]publicProfile{"user": {
		FullName:   user.FullName,
		Email:      user.Email,
		Department: user.Department,
		Year:       user.Year,
	}})
}
