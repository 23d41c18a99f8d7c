// internal/app/features/announcements/handler.go
package announcements

import (
	announcementstore "github.com/thevashuydv/unihub/internal/app/store/announcements"
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	followstore "github.com/thevashuydv/unihub/internal/app/store/follows"
	"github.com/thevashuydv/unihub/internal/app/system/auditlog"
	"github.com/thevashuydv/unihub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for club announcements.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Notify   *notify.Notifier

	Announcements *announcementstore.Store
	Clubs         *clubstore.Store
	Follows       *followstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		AuditLog:      audit,
		Notify:        notifier,
		Announcements: announcementstore.New(db),
		Clubs:         clubstore.New(db),
		Follows:       followstore.New(db.Client(), db),
	}
}
