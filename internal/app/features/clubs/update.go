// internal/app/features/clubs/update.go
package clubs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/authz"
	"github.com/thevashuydv/unihub/internal/app/system/htmlsanitize"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/normalize"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type updateClubRequest struct {
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	ClubHead    string              `json:"club_head"`
	Members     []clubMemberPayload `json:"members"`
}

type clubMemberPayload struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// HandleUpdate handles PUT /clubs/{id}. Only the club's own admin may edit
// it. Empty fields are left unchanged; followers_count is never touched
// through this path.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "club not found")
		return
	}
	if !authz.AdministersClub(r, id) {
		httpjson.Error(w, http.StatusForbidden, "you do not administer this club")
		return
	}

	var req updateClubRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var members []models.ClubMember
	if req.Members != nil {
		members = make([]models.ClubMember, 0, len(req.Members))
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
	}

	err = h.Clubs.Update(ctx, id, models.Club{
		Name:        normalize.Name(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Description: htmlsanitize.Sanitize(req.Description),
		ClubHead:    normalize.Name(req.ClubHead),
		Members:     members,
	})
	if err != nil {
		switch {
		case errors.Is(err, clubstore.ErrNotFound):
			httpjson.Error(w, http.StatusNotFound, "club not found")
		case errors.Is(err, clubstore.ErrDuplicateClub):
			httpjson.Error(w, http.StatusConflict, err.Error())
		default:
			h.Log.Error("club update failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not update club")
		}
		return
	}

	club, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("club reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load club")
		return
	}

	u, _ := auth.CurrentUser(r)
	h.AuditLog.ClubUpdated(ctx, r, u.Email, club.ID, club.Name)

	httpjson.Respond(w, http.StatusOK, detailResponse{Club: club, IsFollowing: false})
}
