// internal/app/features/events/publish.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/authz"
	"github.com/thevashuydv/unihub/internal/app/system/htmlsanitize"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/normalize"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.uber.org/zap"
)

type eventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

func (req *eventRequest) parse() (models.Event, string) {
	name := normalize.Name(req.Name)
	if name == "" {
		return models.Event{}, "event name is required"
	}
	date, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		return models.Event{}, "event_date must be an RFC 3339 timestamp"
	}
	return models.Event{
		Name:        name,
		Description: htmlsanitize.Sanitize(req.Description),
		EventDate:   date.UTC(),
		Location:    strings.TrimSpace(req.Location),
		Category:    strings.TrimSpace(req.Category),
	}, ""
}

// HandleCreate handles POST /events. The event is always published under
// the caller's own club; the follower fan-out runs after the insert has
// committed and can only affect the response's notification report, never
// the publish itself.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var req eventRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	event, msg := req.parse()
	if msg != "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	clubID := authz.UserClubID(r)
	club, err := h.Clubs.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, clubstore.ErrNotFound) {
			httpjson.Error(w, http.StatusForbidden, "no club bound to this account")
			return
		}
		h.Log.Error("club lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not publish event")
		return
	}
	event.ClubID = club.ID
	event.ClubName = club.Name

	event, err = h.Events.Create(ctx, event)
	if err != nil {
		h.Log.Error("event create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not publish event")
		return
	}

	u, _ := auth.CurrentUser(r)
	h.AuditLog.EventCreated(ctx, r, u.Email, club.ID, event.ID, event.Name)
	report := h.Notify.EventPublished(ctx, event)

	httpjson.Respond(w, http.StatusCreated, map[string]any{
		"event":              event,
		"notified":           len(report.Succeeded),
		"notification_batch": report.BatchID,
	})
}

// HandleUpdate handles PUT /events/{id}. Edits never re-notify followers.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, ok := h.loadEvent(ctx, w, r)
	if !ok {
		return
	}
	if !authz.AdministersClub(r, event.ClubID) {
		httpjson.Error(w, http.StatusForbidden, "you do not administer this event's club")
		return
	}

	var req eventRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	update, msg := req.parse()
	if msg != "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.Events.Update(ctx, event.ID, update); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("event update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update event")
		return
	}

	u, _ := auth.CurrentUser(r)
	h.AuditLog.EventUpdated(ctx, r, u.Email, event.ClubID, event.ID, update.Name)

	updated, err := h.Events.GetByID(ctx, event.ID)
	if err != nil {
		h.Log.Error("event reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load event")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"event": updated})
}

// HandleDelete handles DELETE /events/{id}. Removing the event also removes
// its registrations, feedback, and discussion thread so no relationship
// documents are left dangling.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	event, ok := h.loadEvent(ctx, w, r)
	if !ok {
		return
	}
	if !authz.AdministersClub(r, event.ClubID) {
		httpjson.Error(w, http.StatusForbidden, "you do not administer this event's club")
		return
	}

	if _, err := h.Events.Delete(ctx, event.ID); err != nil {
		h.Log.Error("event delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete event")
		return
	}

	regs, err := h.Registrations.DeleteByEvent(ctx, event.ID)
	if err != nil {
		h.Log.Error("registration cascade failed",
			zap.String("event_id", event.ID.Hex()), zap.Error(err))
	}
	if _, err := h.Feedback.DeleteByEvent(ctx, event.ID); err != nil {
		h.Log.Error("feedback cascade failed",
			zap.String("event_id", event.ID.Hex()), zap.Error(err))
	}
	if _, err := h.Discussions.DeleteByEvent(ctx, event.ID); err != nil {
		h.Log.Error("discussion cascade failed",
			zap.String("event_id", event.ID.Hex()), zap.Error(err))
	}

	u, _ := auth.CurrentUser(r)
	h.AuditLog.EventDeleted(ctx, r, u.Email, event.ClubID, event.ID, event.Name, regs)

	httpjson.Respond(w, http.StatusOK, map[string]any{
		"deleted":               true,
		"registrations_removed": regs,
	})
}
