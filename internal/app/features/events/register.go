// internal/app/features/events/register.go
package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	registrationstore "github.com/thevashuydv/unihub/internal/app/store/registrations"
	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/httpjson"
	"github.com/thevashuydv/unihub/internal/app/system/timeouts"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleRegister handles POST /events/{id}/register. The registration
// commits first; the confirmation email afterwards is best effort and can
// not undo it.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	event, ok := h.loadEvent(ctx, w, r)
	if !ok {
		return
	}

	u, _ := auth.CurrentUser(r)

	// Department and year are snapshotted onto the registration for the
	// attendee export; the session doesn't carry them.
	var department, year string
	account, err := h.Users.GetByEmail(ctx, u.Email)
	switch {
	case err == nil:
		department, year = account.Department, account.Year
	case !errors.Is(err, userstore.ErrNotFound):
		h.Log.Error("account lookup failed", zap.Error(err))
	}

	reg, err := h.Registrations.Register(ctx, models.Registration{
		EventID:        event.ID,
		UserEmail:      u.Email,
		UserName:       u.Name,
		UserDepartment: department,
		UserYear:       year,
	})
	if err != nil {
		if errors.Is(err, registrationstore.ErrAlreadyRegistered) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("registration failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not register")
		return
	}

	report := h.Notify.RegistrationConfirmed(ctx, event, u.Email, u.Name)

	httpjson.Respond(w, http.StatusCreated, map[string]any{
		"registration":    reg,
		"confirmation_ok": len(report.Failed) == 0,
	})
}

// HandleUnregister handles DELETE /events/{id}/register.
func (h *Handler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, ok := h.loadEvent(ctx, w, r)
	if !ok {
		return
	}

	u, _ := auth.CurrentUser(r)
	if err := h.Registrations.Unregister(ctx, event.ID, u.Email); err != nil {
		if errors.Is(err, registrationstore.ErrNotRegistered) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("unregister failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not unregister")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]bool{"registered": false})
}

type myRegistrationsResponse struct {
	Events []eventView `json:"events"`
}

// ServeMyRegistrations handles GET /events/registered: the events the
// caller has registered for, most recent registration first. Registrations
// whose event has since been deleted are skipped.
func (h *Handler) ServeMyRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, _ := auth.CurrentUser(r)

	regs, err := h.Registrations.ListByUser(ctx, u.Email)
	if err != nil {
		h.Log.Error("registration list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load registrations")
		return
	}

	views := make([]eventView, 0, len(regs))
	for _, reg := range regs {
		event, err := h.Events.GetByID(ctx, reg.EventID)
		if err != nil {
			continue
		}
		count, err := h.Registrations.CountByEvent(ctx, event.ID)
		if err != nil {
			h.Log.Error("registration count failed", zap.Error(err))
		}
		views = append(views, eventView{
			Event:             event,
			Status:            event.StatusAt(time.Now()),
			RegistrationCount: count,
		})
	}

	httpjson.Respond(w, http.StatusOK, myRegistrationsResponse{Events: views})
}
