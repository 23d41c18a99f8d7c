// internal/app/features/clubs/handler.go
package clubs

import (
	clubstore "github.com/thevashuydv/unihub/internal/app/store/clubs"
	followstore "github.com/thevashuydv/unihub/internal/app/store/follows"
	"github.com/thevashuydv/unihub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for the club directory and the
// follow relationship.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Clubs    *clubstore.Store
	Follows  *followstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Clubs:    clubstore.New(db),
		Follows:  followstore.New(db.Client(), db),
	}
}
