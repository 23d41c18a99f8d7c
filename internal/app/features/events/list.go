// internal/app/features/events/list.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// eventView decorates an event with derived fields: its status relative to
// now and the live registration count. The count always comes from counting
// registration documents, never from a cached number.
type eventView struct {
	models.Event
	Status            string `json:"status"`
	RegistrationCount int64  `json:"registration_count"`
}

type eventListResponse struct {
	Events []eventView `json:"events"`
	Total  int         `json:"total"`
}

// ServeList handles GET /events. Optional filters: ?club_id= narrows to one
// club, ?category= matches case-insensitively, ?status= keeps only
// upcoming/today/past, ?search= matches the event name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()

	filter := eventstore.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if raw := q.Get("club_id"); raw != "" {
		clubID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Error(w, http.StatusUnprocessableEntity, "invalid club_id")
			return
		}
		filter.ClubID = clubID
	}

	all, err := h.Events.List(ctx, filter)
	if err != nil {
		h.Log.Error("event list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load events")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(all))
	for _, e := range all {
		ids = append(ids, e.ID)
	}
	counts, err := h.Registrations.CountByEvents(ctx, ids)
	if err != nil {
		h.Log.Error("registration counts failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load events")
		return
	}

	// Status is derived from event_date at day granularity, so it is
	// computed here rather than queried.
	status := strings.ToLower(strings.TrimSpace(q.Get("status")))
	now := time.Now()

	views := make([]eventView, 0, len(all))
	for _, e := range all {
		st := e.StatusAt(now)
		if status != "" && st != status {
			continue
		}
		views = append(views, eventView{Event: e, Status: st, RegistrationCount: counts[e.ID]})
	}

	httpjson.Respond(w, http.StatusOK, eventListResponse{Events: views, Total: len(views)})
}

type eventDetailResponse struct {
	eventView
	IsRegistered bool `json:"is_registered"`
}

// ServeDetail handles GET /events/{id}. A signed-in caller also learns
// whether they are registered.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	event, ok := h.loadEvent(ctx, w, r)
	if !ok {
		return
	}

	count, err := h.Registrations.CountByEvent(ctx, event.ID)
	if err != nil {
		h.Log.Error("registration count failed", zap.Error(err))
	}

	resp := eventDetailResponse{
		eventView: eventView{
			Event:             event,
			Status:            event.StatusAt(time.Now()),
			RegistrationCount: count,
		},
	}
	if u, ok := auth.CurrentUser(r); ok {
		registered, err := h.Registrations.Exists(ctx, event.ID, u.Email)
		if err != nil {
			h.Log.Error("registration lookup failed", zap.Error(err))
		} else {
			resp.IsRegistered = registered
		}
	}

	httpjson.Respond(w, http.StatusOK, resp)
}

// loadEvent resolves the {id} URL parameter to an event, writing the 404
// itself when it cannot.
func (h *Handler) loadEvent(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Event, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "event not found")
		return models.Event{}, false
	}
	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "event not found")
			return models.Event{}, false
		}
		h.Log.Error("event lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load event")
		return models.Event{}, false
	}
	return event, true
}
