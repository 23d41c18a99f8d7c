// internal/app/features/clubs/detail.go
package clubs

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type detailResponse struct {
	Club        models.Club `json:"club"`
	IsFollowing bool        `json:"is_following"`
}

// ServeDetail handles GET /clubs/{id}. For a signed-in caller the response
// also says whether they follow the club, read from the follow document
// rather than the counter.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "club not found")
		return
	}

	club, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "club not found")
			return
		}
		h.Log.Error("club lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load club")
		return
	}

	resp := detailResponse{Club: club}
	if u, ok := auth.CurrentUser(r); ok {
		following, err := h.Follows.IsFollowing(ctx, u.Email, club.ID)
		if err != nil {
			h.Log.Error("follow lookup failed", zap.Error(err))
		} else {
			resp.IsFollowing = following
		}
	}

	httpjson.Respond(w, http.StatusOK, resp)
}
