// internal/app/features/discussions/handler.go
package discussions

import (
	discussionstore "github.com/thevashuydv/unihub/internal/app/store/discussions"
	eventstore "github.com/thevashuydv/unihub/internal/app/store/events"
	registrationstore "github.com/thevashuydv/unihub/internal/app/store/registrations"
	"github.com/thevashuydv/unihub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for event Q&A threads.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	Discussions   *discussionstore.Store
	Events        *eventstore.Store
	Registrations *registrationstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		AuditLog:      audit,
		Discussions:   discussionstore.New(db),
		Events:        eventstore.New(db),
		Registrations: registrationstore.New(db),
	}
}
