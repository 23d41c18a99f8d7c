// internal/app/features/accounts/handler.go
package accounts

import (
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"github.com/thevashuydv/unihub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for account signup and sign-in.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Users    *userstore.Store
	Clubs    *clubstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Users:    userstore.New(db),
		Clubs:    clubstore.New(db),
	}
}
