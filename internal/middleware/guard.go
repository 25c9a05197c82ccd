package middleware

import (
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/dto"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/session"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/view"
	"github.com/gofiber/fiber/v2"
)

const profileKey = "profile"

// GuardConfig wires the guard into fiber handlers.
type GuardConfig struct {
	Guard   *guard.Guard
	Cookie  string
	Metrics *metrics.Metrics
}

// PageGuard runs the guard before a protected page. Turned-away visitors are
// redirected; authorized pages get their HTML restricted to the caller's role.
func PageGuard(cfg GuardConfig, required ...guard.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, ok := authorize(c, cfg, required)
		if !ok {
			if d.Notice != "" {
				SetNotice(c, "error", d.Notice)
			}
			return c.Redirect(d.Redirect, fiber.StatusSeeOther)
		}

		if err := c.Next(); err != nil {
			return err
		}
		return restrictResponse(c, d.Profile.Role)
	}
}

// APIGuard is PageGuard for JSON endpoints: refusals become 401/403 bodies.
func APIGuard(cfg GuardConfig, required ...guard.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, ok := authorize(c, cfg, required)
		if ok {
			return c.Next()
		}

		status := fiber.StatusForbidden
		message := d.Notice
		switch d.Outcome {
		case guard.Unauthenticated:
			status = fiber.StatusUnauthorized
			message = "Unauthorized"
		case guard.Unprovisioned:
			message = "Account is waiting to be assigned to an agent"
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
	}
}

// ProfileFrom returns the profile of an authorized request, or nil.
func ProfileFrom(c *fiber.Ctx) *guard.UserProfile {
	p, _ := c.Locals(profileKey).(*guard.UserProfile)
	return p
}

func authorize(c *fiber.Ctx, cfg GuardConfig, required []guard.Role) (guard.Decision, bool) {
	ctx := session.WithToken(c.UserContext(), c.Cookies(cfg.Cookie))
	d := cfg.Guard.Authorize(ctx, required...)
	cfg.Metrics.Observe(d)

	if !d.Allowed() {
		slog.InfoContext(ctx, "guard refused request",
			"outcome", d.Outcome.String(),
			"path", c.Path(),
			"request_id", requestID(c),
			"reason", errString(d.Reason))
		if d.SignedOut {
			ClearSessionCookie(c, cfg.Cookie)
		}
		return d, false
	}

	c.SetUserContext(ctx)
	c.Locals(profileKey, d.Profile)
	return d, true
}

func restrictResponse(c *fiber.Ctx, role guard.Role) error {
	if !strings.HasPrefix(string(c.Response().Header.ContentType()), fiber.MIMETextHTML) {
		return nil
	}
	body := c.Response().Body()
	if len(body) == 0 {
		return nil
	}
	out, err := view.Restrict(body, role)
	if err != nil {
		return err
	}
	c.Response().SetBody(out)
	return nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
