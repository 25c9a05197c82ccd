package handlers

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/format"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ExportHandler serves CSV downloads of the caller's depot data.
type ExportHandler struct {
	inventory *services.InventoryService
	loc       *time.Location
}

func NewExportHandler(inventory *services.InventoryService, loc *time.Location) *ExportHandler {
	return &ExportHandler{inventory: inventory, loc: loc}
}

// Boxes writes one row per serial.
func (h *ExportHandler) Boxes(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	boxes, err := h.inventory.ListBoxes(c.UserContext(), p.Agent())
	if err != nil {
		return err
	}

	var rows [][]any
	for _, b := range boxes {
		id := format.BoxID(b.AgentID, b.Client, b.BoxNumber)
		packed := format.DateTime(b.CreatedAt, h.loc)
		for _, s := range b.Serials {
			rows = append(rows, []any{id, b.Client, s.SerialNumber, s.JobID, packed})
		}
	}
	header := []string{"Box ID", "Client", "Serial Number", "Job ID", "Packed At"}
	return h.send(c, "boxes-"+p.Agent(), format.CSV(header, rows))
}

func (h *ExportHandler) Shifts(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	shifts, err := h.inventory.ListShifts(c.UserContext(), p.Agent(), sinceQuery(c, h.loc))
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(shifts))
	for i := range shifts {
		s := &shifts[i]
		var ended, hours string
		if s.EndedAt != nil {
			ended = format.DateTime(*s.EndedAt, h.loc)
			hours = fmt.Sprintf("%.2f", s.Duration().Hours())
		}
		rows = append(rows, []any{s.Email, s.Vehicle, format.DateTime(s.StartedAt, h.loc), ended, hours, s.Jobs})
	}
	header := []string{"Technician", "Vehicle", "Started", "Ended", "Hours", "Jobs"}
	return h.send(c, "shifts-"+p.Agent(), format.CSV(header, rows))
}

func (h *ExportHandler) send(c *fiber.Ctx, name string, body []byte) error {
	stamp := time.Now().In(h.loc).Format("2006-01-02")
	c.Set(fiber.HeaderContentType, "text/csv;charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.csv"`, name, stamp))
	return c.Send(body)
}
