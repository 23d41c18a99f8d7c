// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/thevashuydv/unihub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves a club admin's view of their own club's audit trail.
type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Audit *audit.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Log:   logger,
		Audit: audit.New(db),
	}
}
