package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler GET /health.
type HealthHandler struct {
	service string
	version string
	now     func() time.Time
}

// NewHealthHandler construye el handler.
func NewHealthHandler(service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version, now: time.Now}
}

// Check responde {status, timestamp, service, version}.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"service":   h.service,
		"version":   h.version,
	})
}
