// internal/app/features/profile/handler.go
package profile

import (
	userstore "github.com/thevashuydv/unihub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for account profiles.
type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Users *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Log:   logger,
		Users: userstore.New(db),
	}
}
