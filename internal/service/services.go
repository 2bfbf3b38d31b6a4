package service

import (
	"go.uber.org/zap"

	"github.com/opencontacts/contacts-backend/internal/storage"
	"github.com/opencontacts/contacts-backend/pkg/config"
)

// Services aggregates all application services
type Services struct {
	Contact *ContactService
}

// NewServices creates a new Services instance
func NewServices(store storage.Store, cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		Contact: NewContactService(store, logger),
	}
}
