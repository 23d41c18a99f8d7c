// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/thevashuydv/unihub/internal/app/store/audit"
	"github.com/thevashuydv/unihub/internal/app/system/authz"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const defaultLimit = 50

type listResponse struct {
	Events []audit.Event `json:"events"`
	Total  int64         `json:"total"`
}

// ServeClubEvents handles GET /audit: the caller's own club's audit events,
// most recent first. ?limit= caps the page, ?type= narrows to one event
// type.
func (h *Handler) ServeClubEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubID := authz.UserClubID(r)
	if clubID.IsZero() {
		httpjson.Error(w, http.StatusForbidden, "no club bound to this account")
		return
	}

	limit := int64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	filter := audit.QueryFilter{
		ClubID:    &clubID,
		EventType: r.URL.Query().Get("type"),
		Limit:     limit,
	}

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load audit events")
		return
	}
	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("audit count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load audit events")
		return
	}

	httpjson.Respond(w, http.StatusOK, listResponse{Events: events, Total: total})
}
