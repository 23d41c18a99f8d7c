// internal/app/features/announcements/announcements.go
package announcements

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	announcementstore "github.com/thevashuydv/unihub/internal/app/store/announcements"
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/authz"
	"github.com/thevashuydv/unihub/internal/app/system/htmlsanitize"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type announcementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (req *announcementRequest) clean() (title, content, msg string) {
	title = strings.TrimSpace(req.Title)
	content = htmlsanitize.Sanitize(req.Content)
	switch {
	case title == "":
		return "", "", "title is required"
	case strings.TrimSpace(content) == "":
		return "", "", "content is required"
	}
	return title, content, ""
}

type listResponse struct {
	Announcements []models.Announcement `json:"announcements"`
}

// ServeByClub handles GET /announcements?club_id=. Public read, newest
// first.
func (h *Handler) ServeByClub(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("club_id"))
	if err != nil {
		httpjson.Error(w, http.StatusUnprocessableEntity, "club_id is required")
		return
	}

	list, err := h.Announcements.ListByClub(ctx, clubID)
	if err != nil {
		h.Log.Error("announcement list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load announcements")
		return
	}

	httpjson.Respond(w, http.StatusOK, listResponse{Announcements: list})
}

// ServeFeed handles GET /announcements/feed: announcements from every club
// the caller follows, newest first across clubs.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, _ := auth.CurrentUser(r)

	clubIDs, err := h.Follows.ClubIDsByUser(ctx, u.Email)
	if err != nil {
		h.Log.Error("follow lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load feed")
		return
	}

	list, err := h.Announcements.ListByClubs(ctx, clubIDs)
	if err != nil {
		h.Log.Error("announcement feed failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load feed")
		return
	}

	httpjson.Respond(w, http.StatusOK, listResponse{Announcements: list})
}

// HandleCreate handles POST /announcements. The announcement is always
// posted under the caller's own club and fanned out to its followers after
// the insert commits.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var req announcementRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	title, content, msg := req.clean()
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
		httpjson.Error(w, http.StatusInternalServerError, "could not post announcement")
		return
	}

	a, err := h.Announcements.Create(ctx, models.Announcement{
		ClubID:   club.ID,
		ClubName: club.Name,
		Title:    title,
		Content:  content,
	})
	if err != nil {
		h.Log.Error("announcement create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not post announcement")
		return
	}

	u, _ := auth.CurrentUser(r)
	h.AuditLog.AnnouncementCreated(ctx, r, u.Email, club.ID, a.ID, a.Title)
	report := h.Notify.AnnouncementPublished(ctx, a)

	httpjson.Respond(w, http.StatusCreated, map[string]any{
		"announcement":       a,
		"notified":           len(report.Succeeded),
		"notification_batch": report.BatchID,
	})
}

// HandleUpdate handles PUT /announcements/{id}. Edits never re-notify.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}

	var req announcementRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	title, content, msg := req.clean()
	if msg != "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.Announcements.Update(ctx, a.ID, title, content); err != nil {
		if errors.Is(err, announcementstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "announcement not found")
			return
		}
		h.Log.Error("announcement update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update announcement")
		return
	}

	u, _ := auth.CurrentUser(r)
	h.AuditLog.AnnouncementUpdated(ctx, r, u.Email, a.ClubID, a.ID, title)

	updated, err := h.Announcements.GetByID(ctx, a.ID)
	if err != nil {
		h.Log.Error("announcement reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load announcement")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"announcement": updated})
}

// HandleDelete handles DELETE /announcements/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}

	if _, err := h.Announcements.Delete(ctx, a.ID); err != nil {
		h.Log.Error("announcement delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete announcement")
		return
	}

	u, _ := auth.CurrentUser(r)
	h.AuditLog.AnnouncementDeleted(ctx, r, u.Email, a.ClubID, a.ID, a.Title)

	httpjson.Respond(w, http.StatusOK, map[string]bool{"deleted": true})
}

// loadOwned resolves {id} and checks the caller administers the
// announcement's club, writing the error response itself on failure.
func (h *Handler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Announcement, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "announcement not found")
		return models.Announcement{}, false
	}
	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, announcementstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "announcement not found")
			return models.Announcement{}, false
		}
		h.Log.Error("announcement lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load announcement")
		return models.Announcement{}, false
	}
	if !authz.AdministersClub(r, a.ClubID) {
		httpjson.Error(w, http.StatusForbidden, "you do not administer this announcement's club")
		return models.Announcement{}, false
	}
	return a, true
}
