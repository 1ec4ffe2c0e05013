package snapshot

import (
	"userdata-server/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for database snapshots.
type Handler struct {
	service *Service
	dbPath  string
}

// NewHandler creates a new HTTP handler snapshotting the given database file.
func NewHandler(service *Service, dbPath string) *Handler {
	return &Handler{service: service, dbPath: dbPath}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/snapshot", h.HandleSnapshot)
}

// HandleSnapshot uploads the active database file to object storage.
func (h *Handler) HandleSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Snapshot requested", zap.String("db_path", h.dbPath))

	object, err := h.service.Upload(c.Context(), h.dbPath)
	if err != nil {
		l.Error("Snapshot failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "uploaded",
		"object": object,
	})
}
