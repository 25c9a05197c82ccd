package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/depot"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/directory"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/dto"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/format"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/services"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/view"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/web"
	"github.com/gofiber/fiber/v2"
)

// PageHandler renders the guarded pages. Every handler here runs behind
// middleware.PageGuard, so ProfileFrom is never nil.
type PageHandler struct {
	inventory *services.InventoryService
	directory *directory.Directory
	depots    *depot.Registry
	loc       *time.Location
}

func NewPageHandler(inventory *services.InventoryService, dir *directory.Directory, depots *depot.Registry, loc *time.Location) *PageHandler {
	return &PageHandler{inventory: inventory, directory: dir, depots: depots, loc: loc}
}

func (h *PageHandler) render(c *fiber.Ctx, name, title string, data fiber.Map) error {
	p := middleware.ProfileFrom(c)
	bind := fiber.Map{
		"Title":     title,
		"Profile":   p,
		"DepotName": h.depots.Name(p.Agent()),
		"Sidebar":   view.BuildSidebar(c.Path(), p.Role),
		"Alert":     middleware.TakeNotice(c),
	}
	for k, v := range data {
		bind[k] = v
	}
	return c.Render(name, bind, web.Layout)
}

func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	return h.render(c, "dashboard", "Stock Entry", fiber.Map{
		"Clients": h.depots.Clients(p.Agent()),
	})
}

// CreateBox handles the stock entry form.
func (h *PageHandler) CreateBox(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	var req dto.StockEntryRequest
	if err := c.BodyParser(&req); err != nil {
		middleware.SetNotice(c, "error", "Invalid request body")
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	box, err := h.inventory.CreateBox(c.UserContext(), services.CreateBoxInput{
		AgentID:   p.Agent(),
		Client:    req.Client,
		JobID:     req.JobID,
		Serials:   splitSerials(req.Serials),
		CreatedBy: p.ID,
	})
	if err != nil {
		var dupErr *services.DuplicateSerialsError
		switch {
		case errors.As(err, &dupErr):
			c.Status(fiber.StatusConflict)
			return h.render(c, "dashboard", "Stock Entry", fiber.Map{
				"Clients":    h.depots.Clients(p.Agent()),
				"Duplicates": dupErr.Serials,
				"Alert":      &middleware.Alert{Type: "error", Message: "Some serial numbers are already recorded."},
			})
		case errors.Is(err, services.ErrNoSerials):
			middleware.SetNotice(c, "warning", "Enter at least one serial number.")
		default:
			slog.ErrorContext(c.UserContext(), "create box failed",
				"agent_id", p.Agent(), "user_id", p.ID.String(), "action", "inventory.create_box", "error", err)
			middleware.SetNotice(c, "error", "Could not save the box. Please try again.")
		}
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	id := format.BoxID(box.AgentID, box.Client, box.BoxNumber)
	middleware.SetNotice(c, "success", "Packed "+id+".")
	return c.Redirect("/boxes", fiber.StatusSeeOther)
}

func (h *PageHandler) Boxes(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	boxes, err := h.inventory.ListBoxes(c.UserContext(), p.Agent())
	if err != nil {
		return err
	}
	return h.render(c, "boxes", "Boxes", fiber.Map{"Boxes": boxes})
}

func (h *PageHandler) User(c *fiber.Ctx) error {
	return h.render(c, "user", "User", nil)
}

func (h *PageHandler) AdminDepot(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	members, err := h.directory.Members(c.UserContext(), p.Agent())
	if err != nil {
		return err
	}
	return h.render(c, "admin-depot", "Depot Config", fiber.Map{
		"Depot":   h.depots.Get(p.Agent()),
		"Members": members,
	})
}

func (h *PageHandler) AdminShifts(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	since := sinceQuery(c, h.loc)
	shifts, err := h.inventory.ListShifts(c.UserContext(), p.Agent(), since)
	if err != nil {
		return err
	}
	return h.render(c, "admin-shifts", "Shift Reports", fiber.Map{
		"Shifts": shifts,
		"Since":  format.DateTimeLocal(since, h.loc),
	})
}

// sinceQuery reads the ?since= shift filter. Missing or malformed values mean
// no filter.
func sinceQuery(c *fiber.Ctx, loc *time.Location) time.Time {
	raw := c.Query("since")
	if raw == "" {
		return time.Time{}
	}
	t, err := format.ParseDateTimeLocal(raw, loc)
	if err != nil {
		slog.DebugContext(c.UserContext(), "ignoring shift filter", "since", raw, "error", err)
		return time.Time{}
	}
	return t
}

// splitSerials accepts one serial per line, or comma separated.
func splitSerials(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
}
