// internal/app/features/clubs/follow.go
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

type followResponse struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followers_count"`
}

// HandleToggleFollow handles POST /clubs/{id}/follow. One endpoint flips the
// state both ways; the response says which side the caller landed on.
func (h *Handler) HandleToggleFollow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, _ := auth.CurrentUser(r)

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

	following, err := h.Follows.Toggle(ctx, u.Email, u.Name, club)
	if err != nil {
		h.Log.Error("follow toggle failed",
			zap.String("club_id", club.ID.Hex()),
			zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update follow")
		return
	}

	// Re-read for the fresh counter; the toggle may have raced another
	// request and the stored count is what matters for display.
	count := club.FollowersCount
	if fresh, err := h.Clubs.GetByID(ctx, club.ID); err == nil {
		count = fresh.FollowersCount
	}

	httpjson.Respond(w, http.StatusOK, followResponse{
		Following:      following,
		FollowersCount: count,
	})
}

// ServeFollowStatus handles GET /clubs/{id}/follow.
func (h *Handler) ServeFollowStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "club not found")
		return
	}

	following, err := h.Follows.IsFollowing(ctx, u.Email, id)
	if err != nil {
		h.Log.Error("follow lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load follow state")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]bool{"following": following})
}

type followedResponse struct {
	Clubs []models.Club `json:"clubs"`
}

// ServeFollowed handles GET /clubs/followed: the clubs the caller follows,
// most recently followed first.
func (h *Handler) ServeFollowed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, _ := auth.CurrentUser(r)

	follows, err := h.Follows.ListByUser(ctx, u.Email)
	if err != nil {
		h.Log.Error("follow list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load followed clubs")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.ClubID)
	}

	clubs, err := h.Clubs.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("club lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load followed clubs")
		return
	}

	// GetByIDs gives no ordering; restore follow recency.
	byID := make(map[primitive.ObjectID]models.Club, len(clubs))
	for _, c := range clubs {
		byID[c.ID] = c
	}
	ordered := make([]models.Club, 0, len(follows))
	for _, f := range follows {
		if c, ok := byID[f.ClubID]; ok {
			ordered = append(ordered, c)
		}
	}

	httpjson.Respond(w, http.StatusOK, followedResponse{Clubs: ordered})
}
