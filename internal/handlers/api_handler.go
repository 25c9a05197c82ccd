package handlers

import (
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/depot"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/dto"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type APIHandler struct {
	depots *depot.Registry
}

func NewAPIHandler(depots *depot.Registry) *APIHandler {
	return &APIHandler{depots: depots}
}

// Me returns the authorized caller's profile.
func (h *APIHandler) Me(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	return c.JSON(dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role.String(),
		AgentID:   p.Agent(),
		DepotName: h.depots.Name(p.Agent()),
	})
}
