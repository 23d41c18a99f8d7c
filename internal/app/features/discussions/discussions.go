// internal/app/features/discussions/discussions.go
package discussions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	discussionstore "github.com/thevashuydv/unihub/internal/app/store/discussions"
	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/authz"
	"github.com/thevashuydv/unihub/internal/app/system/htmlsanitize"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type askRequest struct {
	EventID  string `json:"event_id"`
	Question string `json:"question"`
}

type replyRequest struct {
	Answer string `json:"answer"`
}

type threadsResponse struct {
	Threads []models.DiscussionThread `json:"threads"`
}

// ServeThreads handles GET /discussions?event_id=: the event's Q&A as
// question/reply pairs, newest question first.
func (h *Handler) ServeThreads(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	eventID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("event_id"))
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, "event_id is required")
		return
	}

	threads, err := h.Discussions.Threads(ctx, eventID)
	if err != nil {
		h.Log.Error("discussion load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load discussion")
		return
	}

	httpjson.Respond(w, http.StatusOK, threadsResponse{Threads: threads})
}

// HandleAsk handles POST /discussions. Only attendees with an active
// registration may ask.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var req askRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	question := htmlsanitize.Sanitize(strings.TrimSpace(req.Question))
	if question == "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, "question is required")
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
		httpjson.Error(w, http.StatusInternalServerError, "could not post question")
		return
	}

	u, _ := auth.CurrentUser(r)
	registered, err := h.Registrations.Exists(ctx, event.ID, u.Email)
	if err != nil {
		h.Log.Error("registration lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not post question")
		return
	}
	if !registered {
		httpjson.Error(w, http.StatusForbidden, "only registered attendees can ask questions")
		return
	}

	entry, err := h.Discussions.PostQuestion(ctx, models.DiscussionEntry{
		EventID:   event.ID,
		UserEmail: u.Email,
		UserName:  u.Name,
		Question:  question,
	})
	if err != nil {
		h.Log.Error("question create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not post question")
		return
	}

	httpjson.Respond(w, http.StatusCreated, map[string]any{"question": entry})
}

// HandleReply handles POST /discussions/{id}/reply. Only the admin of the
// event's owning club may answer, and each question takes exactly one
// answer.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	parentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "question not found")
		return
	}

	var req replyRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	answer := htmlsanitize.Sanitize(strings.TrimSpace(req.Answer))
	if answer == "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, "answer is required")
		return
	}

	question, err := h.Discussions.GetQuestion(ctx, parentID)
	if err != nil {
		if errors.Is(err, discussionstore.ErrQuestionNotFound) {
			httpjson.Error(w, http.StatusNotFound, "question not found")
			return
		}
		h.Log.Error("question lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not post reply")
		return
	}

	event, err := h.Events.GetByID(ctx, question.EventID)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "event not found")
			return
		}
		h.Log.Error("event lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not post reply")
		return
	}
	if !authz.AdministersClub(r, event.ClubID) {
		httpjson.Error(w, http.StatusForbidden, "you do not administer this event's club")
		return
	}

	u, _ := auth.CurrentUser(r)
	entry, err := h.Discussions.PostReply(ctx, parentID, models.DiscussionEntry{
		EventID:   event.ID,
		UserEmail: u.Email,
		UserName:  u.Name,
		Question:  answer,
	})
	if err != nil {
		switch {
		case errors.Is(err, discussionstore.ErrAlreadyReplied):
			httpjson.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, discussionstore.ErrQuestionNotFound):
			httpjson.Error(w, http.StatusNotFound, "question not found")
		default:
			h.Log.Error("reply create failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not post reply")
		}
		return
	}

	httpjson.Respond(w, http.StatusCreated, map[string]any{"reply": entry})
}
