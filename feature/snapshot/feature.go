package snapshot

import (
	"userdata-server/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature bundles the snapshot service and handler for the feature loader.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the snapshot feature for the given database file.
func NewFeature(client storage.Client, bucket, dbPath string, logger *zap.Logger) *Feature {
	svc := NewService(client, bucket, logger)
	return &Feature{
		service: svc,
		handler: NewHandler(svc, dbPath),
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "snapshot"
}

// IsEnabled reports whether a storage client is configured.
func (f *Feature) IsEnabled() bool {
	return f.service.client != nil
}

// Load registers the feature routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
