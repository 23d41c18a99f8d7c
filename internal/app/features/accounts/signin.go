// internal/app/features/accounts/signin.go
package accounts

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/normalize"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignin handles POST /auth/signin. Both unknown-address and
// wrong-password cases answer 401 with the same message; the audit log
// keeps the distinction.
func (h *Handler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var req signinRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Email = normalize.Email(req.Email)
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.AuditLog.SigninFailedUserNotFound(ctx, r, req.Email)
			httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("signin lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not sign in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.AuditLog.SigninFailedWrongPassword(ctx, r, req.Email)
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.AuditLog.SigninSuccess(ctx, r, user.Email, user.Role)
	h.signInAndRespond(w, r, user, nil, http.StatusOK)
}

// HandleSignout handles POST /auth/signout.
func (h *Handler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Signout(r.Context(), r, u.Email)
	}
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Error("signout failed", zap.Error(err))
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"signed_out": true})
}
