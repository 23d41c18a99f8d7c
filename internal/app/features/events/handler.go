// internal/app/features/events/handler.go
package events

import (
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	discussionstore "github.com/thevashuydv/unihub/internal/app/store/discussions"
	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	feedbackstore "github.com/thevashuydv/unihub/internal/app/store/feedback"
	registrationstore "github.com/thevashuydv/unihub/internal/app/store/registrations"
	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"github.com/thevashuydv/unihub/internal/app/system/auditlog"
	"github.com/thevashuydv/unihub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for event publication, registration,
// and the admin views over attendees.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Notify   *notify.Notifier

	Events        *eventstore.Store
	Clubs         *clubstore.Store
	Registrations *registrationstore.Store
	Feedback      *feedbackstore.Store
	Discussions   *discussionstore.Store
	Users         *userstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		AuditLog:      audit,
		Notify:        notifier,
		Events:        eventstore.New(db),
		Clubs:         clubstore.New(db),
		Registrations: registrationstore.New(db),
		Feedback:      feedbackstore.New(db),
		Discussions:   discussionstore.New(db),
		Users:         userstore.New(db),
	}
}
