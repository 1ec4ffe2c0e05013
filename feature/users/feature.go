package users

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature bundles the users service and handler for the feature loader.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the users feature over the engine's database handle.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	svc := NewService(db, logger)
	return &Feature{
		service: svc,
		handler: NewHandler(svc),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "users"
}

// IsEnabled reports whether the feature can serve; it needs a database.
func (f *Feature) IsEnabled() bool {
	return f.service.db != nil
}

// Load registers the feature routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
