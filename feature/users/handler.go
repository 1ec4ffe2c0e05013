package users

import (
	"fmt"

	"userdata-server/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for user lookups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the user routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/query", h.HandleQuery)
	app.Post("/stats", h.HandleStats)
}

// HandleQuery looks up users by exactly one of phone, qq or email, supplied
// as form fields. When several are present the first in lookup order wins.
func (h *Handler) HandleQuery(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	for _, field := range lookupOrder {
		value := c.FormValue(string(field))
		if value == "" {
			continue
		}

		results, err := h.service.Lookup(c.Context(), field, value)
		if err != nil {
			l.Error("Query failed", zap.String("field", string(field)), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if results == nil {
			results = []UserInfo{}
		}
		return c.JSON(results)
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "one of phone, qq or email is required",
	})
}

// HandleStats renders the database statistics as an HTML fragment.
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	st, err := h.service.Stats(c.Context())
	if err != nil {
		l.Error("Stats failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Database Error: Could not connect")
	}

	html := fmt.Sprintf(`
        <h2>Database Statistics</h2>
        <ul>
            <li>Total Records: %d</li>
            <li>Unique Phones: %d</li>
            <li>Unique QQs: %d</li>
            <li>Unique Emails: %d</li>
        </ul>
        `, st.TotalRecords, st.UniquePhones, st.UniqueQQs, st.UniqueEmails)

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}
