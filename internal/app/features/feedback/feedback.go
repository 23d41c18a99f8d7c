// internal/app/features/feedback/feedback.go
package feedback

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	feedbackstore "github.com/thevashuydv/unihub/internal/app/store/feedback"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/authz"
	"github.com/thevashuydv/unihub/internal/app/system/htmlsanitize"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type submitRequest struct {
	EventID string `json:"event_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type updateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type eventFeedbackResponse struct {
	Summary  feedbackstore.Summary `json:"summary"`
	Feedback []models.Feedback     `json:"feedback"`
}

// ServeForEvent handles GET /feedback?event_id=: the rating summary plus
// the individual submissions, newest first.
func (h *Handler) ServeForEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	eventID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("event_id"))
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, "event_id is required")
		return
	}

	summary, err := h.Feedback.Summarize(ctx, eventID)
	if err != nil {
		h.Log.Error("feedback summary failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load feedback")
		return
	}
	list, err := h.Feedback.ListByEvent(ctx, eventID)
	if err != nil {
		h.Log.Error("feedback list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load feedback")
		return
	}

	httpjson.Respond(w, http.StatusOK, eventFeedbackResponse{Summary: summary, Feedback: list})
}

// HandleSubmit handles POST /feedback. Submission is gated four ways: the
// rating must be 1..5, the event must already be past, the caller must have
// been registered, and the owning club's admin cannot rate their own event.
// The unique index makes the submission a singleton per (event, user).
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req submitRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httpjson.Error(w, http.StatusUnprocessableEntity, "rating must be between 1 and 5")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(req.EventID)
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, "event_id is required")
		return
	}

	event, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("event lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not submit feedback")
		return
	}
	if !event.IsPastAt(time.Now()) {
		httpjson.Error(w, http.StatusForbidden, "feedback opens after the event has ended")
		return
	}
	if authz.AdministersClub(r, event.ClubID) {
		httpjson.Error(w, http.StatusForbidden, "club admins cannot rate their own events")
		return
	}

	u, _ := auth.CurrentUser(r)
	registered, err := h.Registrations.Exists(ctx, event.ID, u.Email)
	if err != nil {
		h.Log.Error("registration lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not submit feedback")
		return
	}
	if !registered {
		httpjson.Error(w, http.StatusForbidden, "only registered attendees can leave feedback")
		return
	}

	fb, err := h.Feedback.Create(ctx, models.Feedback{
		EventID:   event.ID,
		UserEmail: u.Email,
		UserName:  u.Name,
		Rating:    req.Rating,
		Comment:   htmlsanitize.Sanitize(strings.TrimSpace(req.Comment)),
	})
	if err != nil {
		if errors.Is(err, feedbackstore.ErrAlreadySubmitted) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("feedback create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not submit feedback")
		return
	}

	httpjson.Respond(w, http.StatusCreated, map[string]any{"feedback": fb})
}

// HandleUpdate handles PUT /feedback/{id}. The store filters by both id and
// author, so editing anyone else's feedback falls out as not found.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "feedback not found")
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httpjson.Error(w, http.StatusUnprocessableEntity, "rating must be between 1 and 5")
		return
	}

	u, _ := auth.CurrentUser(r)
	comment := htmlsanitize.Sanitize(strings.TrimSpace(req.Comment))
	if err := h.Feedback.Update(ctx, id, u.Email, req.Rating, comment); err != nil {
		if errors.Is(err, feedbackstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "feedback not found")
			return
		}
		h.Log.Error("feedback update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update feedback")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]bool{"updated": true})
}

// HandleDelete handles DELETE /feedback/{id}, owner-only like update.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "feedback not found")
		return
	}

	u, _ := auth.CurrentUser(r)
	if err := h.Feedback.Delete(ctx, id, u.Email); err != nil {
		if errors.Is(err, feedbackstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "feedback not found")
			return
		}
		h.Log.Error("feedback delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete feedback")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]bool{"deleted": true})
}
