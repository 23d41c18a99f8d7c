// internal/app/features/clubs/list.go
package clubs

import (
	"context"
	"net/http"

	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.uber.org/zap"
)

type listResponse struct {
	Clubs []models.Club `json:"clubs"`
	Total int           `json:"total"`
}

// ServeList handles GET /clubs. Optional ?category= narrows by exact
// category (case-insensitive) and ?search= matches against name and
// description. Both filters run inside the store query.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()
	clubs, err := h.Clubs.List(ctx, clubstore.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		h.Log.Error("club list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load clubs")
		return
	}
	if clubs == nil {
		clubs = []models.Club{}
	}

	httpjson.Respond(w, http.StatusOK, listResponse{Clubs: clubs, Total: len(clubs)})
}
