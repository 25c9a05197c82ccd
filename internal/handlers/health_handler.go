package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/database"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/depot"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	depots *depot.Registry
	ping   func() error
}

func NewHealthHandler(depots *depot.Registry) *HealthHandler {
	return &HealthHandler{depots: depots, ping: database.Ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		DB:         dbStatus,
		DepotCount: len(h.depots.All()),
	})
}
