package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/config"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/dto"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/services"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/session"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/web"
	"github.com/gofiber/fiber/v2"
)

const logoutFailedNotice = "Error logging out. Please try again."

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// LoginPage renders the sign-in and sign-up forms.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Title": "Sign in",
		"Alert": middleware.TakeNotice(c),
	}, web.Layout)
}

// PendingPage is shown to signed-in users who are not yet assigned to a depot.
func (h *AuthHandler) PendingPage(c *fiber.Ctx) error {
	return c.Render("pending", fiber.Map{
		"Title": "Awaiting access",
		"Alert": middleware.TakeNotice(c),
	}, web.Layout)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		middleware.SetNotice(c, "error", "Invalid request body")
		return c.Redirect(h.cfg.LoginPath, fiber.StatusSeeOther)
	}

	res, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			middleware.SetNotice(c, "error", "Invalid email or password.")
		} else {
			slog.ErrorContext(c.UserContext(), "login failed", "action", "auth.login", "error", err)
			middleware.SetNotice(c, "error", "Something went wrong. Please try again.")
		}
		return c.Redirect(h.cfg.LoginPath, fiber.StatusSeeOther)
	}

	middleware.SetSessionCookie(c, h.cfg.SessionCookie, res.Token, res.ExpiresAt, h.cfg.SecureCookies)
	return c.Redirect(h.cfg.LandingPath, fiber.StatusSeeOther)
}

// Signup creates an unprovisioned account and signs it in. The guard then
// routes the new user to the pending page.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		middleware.SetNotice(c, "error", "Invalid request body")
		return c.Redirect(h.cfg.LoginPath, fiber.StatusSeeOther)
	}

	res, err := h.authService.Signup(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			middleware.SetNotice(c, "error", "An account with that email already exists.")
		case errors.Is(err, services.ErrWeakCredentials):
			middleware.SetNotice(c, "warning", "Password must be at least 8 characters.")
		default:
			slog.ErrorContext(c.UserContext(), "signup failed", "action", "auth.signup", "error", err)
			middleware.SetNotice(c, "error", "Something went wrong. Please try again.")
		}
		return c.Redirect(h.cfg.LoginPath, fiber.StatusSeeOther)
	}

	slog.InfoContext(c.UserContext(), "account created", "user_id", res.UserID.String())
	middleware.SetSessionCookie(c, h.cfg.SessionCookie, res.Token, res.ExpiresAt, h.cfg.SecureCookies)
	return c.Redirect(h.cfg.LandingPath, fiber.StatusSeeOther)
}

// Logout revokes the session. A failed revocation keeps the cookie and sends
// the user back to the landing page with an error notice.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := session.WithToken(c.UserContext(), c.Cookies(h.cfg.SessionCookie))
	if err := h.authService.Logout(ctx); err != nil {
		slog.ErrorContext(ctx, "logout failed", "action", "auth.logout", "error", err)
		middleware.SetNotice(c, "error", logoutFailedNotice)
		return c.Redirect(h.cfg.LandingPath, fiber.StatusSeeOther)
	}

	middleware.ClearSessionCookie(c, h.cfg.SessionCookie)
	return c.Redirect(h.cfg.LoginPath, fiber.StatusSeeOther)
}
