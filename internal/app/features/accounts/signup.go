// internal/app/features/accounts/signup.go
package accounts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/htmlsanitize"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/normalize"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

type signupRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Year       string `json:"year"`
}

type clubSignupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	ClubName        string              `json:"club_name"`
	ClubCategory    string              `json:"club_category"`
	ClubDescription string              `json:"club_description"`
	ClubHead        string              `json:"club_head"`
	Members         []clubMemberPayload `json:"members"`
}

type clubMemberPayload struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type accountResponse struct {
	User models.User  `json:"user"`
	Club *models.Club `json:"club,omitempty"`
}

func validateCredentials(email, password, fullName string) string {
	switch {
	case fullName == "":
		return "full name is required"
	case email == "" || !strings.Contains(email, "@"):
		return "a valid email is required"
	case len(password) < minPasswordLen:
		return "password must be at least 8 characters"
	}
	return ""
}

// HandleSignup handles POST /auth/signup: creates a student account and
// signs the caller in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var req signupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Email = normalize.Email(req.Email)
	req.FullName = normalize.Name(req.FullName)
	if msg := validateCredentials(req.Email, req.Password, req.FullName); msg != "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("bcrypt hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Department:   strings.TrimSpace(req.Department),
		Year:         strings.TrimSpace(req.Year),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("create user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	h.AuditLog.SignupSuccess(ctx, r, user.Email, user.Role, nil)
	h.signInAndRespond(w, r, user, nil, http.StatusCreated)
}

// HandleClubSignup handles POST /auth/club-signup: creates a club and its
// admin account in one step, then signs the caller in.
func (h *Handler) HandleClubSignup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req clubSignupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Email = normalize.Email(req.Email)
	req.FullName = normalize.Name(req.FullName)
	if msg := validateCredentials(req.Email, req.Password, req.FullName); msg != "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	req.ClubName = normalize.Name(req.ClubName)
	if req.ClubName == "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, "club name is required")
		return
	}

	// Fail fast on a taken email or club name before creating anything, so
	// a duplicate attempt doesn't leave an orphaned club or account behind.
	taken, err := h.Users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		h.Log.Error("email lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}
	if taken {
		httpjson.Error(w, http.StatusConflict, userstore.ErrDuplicateEmail.Error())
		return
	}
	nameTaken, err := h.Clubs.ExistsByNameCI(ctx, text.Fold(req.ClubName))
	if err != nil {
		h.Log.Error("club name lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create club")
		return
	}
	if nameTaken {
		httpjson.Error(w, http.StatusConflict, clubstore.ErrDuplicateClub.Error())
		return
	}

	members := make([]models.ClubMember, 0, len(req.Members))
	for _, m := range req.Members {
		name := normalize.Name(m.Name)
		if name == "" {
			continue
		}
		members = append(members, models.ClubMember{
			Name:     name,
			Position: strings.TrimSpace(m.Position),
		})
	}

	club, err := h.Clubs.Create(ctx, models.Club{
		Name:        req.ClubName,
		Category:    strings.TrimSpace(req.ClubCategory),
		Description: htmlsanitize.Sanitize(req.ClubDescription),
		AdminEmail:  req.Email,
		ClubHead:    normalize.Name(req.ClubHead),
		Members:     members,
	})
	if err != nil {
		if errors.Is(err, clubstore.ErrDuplicateClub) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("create club failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create club")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("bcrypt hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         models.RoleClubAdmin,
		ClubID:       &club.ID,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("create club admin failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	h.AuditLog.ClubCreated(ctx, r, user.Email, club.ID, club.Name)
	h.AuditLog.SignupSuccess(ctx, r, user.Email, user.Role, &club.ID)
	h.signInAndRespond(w, r, user, &club, http.StatusCreated)
}

func (h *Handler) signInAndRespond(w http.ResponseWriter, r *http.Request, user models.User, club *models.Club, status int) {
	su := auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
	if user.ClubID != nil {
		su.ClubID = user.ClubID.Hex()
	}
	if err := auth.SignIn(w, r, su); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not establish session")
		return
	}
	httpjson.Respond(w, status, accountResponse{User: user, Club: club})
}
