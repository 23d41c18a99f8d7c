// internal/app/features/feedback/handler.go
package feedback

import (
	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	feedbackstore "github.com/thevashuydv/unihub/internal/app/store/feedback"
	registrationstore "github.com/thevashuydv/unihub/internal/app/store/registrations"
	"github.com/thevashuydv/unihub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for post-event feedback.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	Feedback      *feedbackstore.Store
	Events        *eventstore.Store
	Registrations *registrationstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		AuditLog:      audit,
		Feedback:      feedbackstore.New(db),
		Events:        eventstore.New(db),
		Registrations: registrationstore.New(db),
	}
}
