package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/config"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	guardCfg middleware.GuardConfig,
	m *metrics.Metrics,
	authHandler *handlers.AuthHandler,
	pageHandler *handlers.PageHandler,
	exportHandler *handlers.ExportHandler,
	healthHandler *handlers.HealthHandler,
	apiHandler *handlers.APIHandler,
) {
	app.Use("/static", web.Static())

	app.Get("/healthz", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	// Public pages
	app.Get(cfg.LoginPath, authHandler.LoginPage)
	app.Get(cfg.PendingPath, authHandler.PendingPage)
	app.Post("/logout", authHandler.Logout)

	// Credential endpoints: 10 req/min per IP
	credentials := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	app.Post("/login", credentials, authHandler.Login)
	app.Post("/signup", credentials, authHandler.Signup)

	// Any provisioned role
	pages := middleware.PageGuard(guardCfg)
	app.Get("/dashboard", pages, pageHandler.Dashboard)
	app.Post("/dashboard", pages, pageHandler.CreateBox)
	app.Get("/boxes", pages, pageHandler.Boxes)
	app.Get("/boxes.csv", pages, exportHandler.Boxes)
	app.Get("/user", pages, pageHandler.User)

	// Managers only
	admin := middleware.PageGuard(guardCfg, guard.RoleManager)
	app.Get("/admin", func(c *fiber.Ctx) error { return c.Redirect("/admin-depot", fiber.StatusMovedPermanently) })
	app.Get("/admin-depot", admin, pageHandler.AdminDepot)
	app.Get("/admin-shifts", admin, pageHandler.AdminShifts)
	app.Get("/admin-shifts.csv", admin, exportHandler.Shifts)

	// JSON API: the JWT gate rejects bad tokens before the guard hits the database
	api := app.Group("/api", middleware.CORS(cfg))
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	api.Get("/health", healthHandler.Check)
	api.Get("/me", middleware.JWTProtected(cfg), middleware.APIGuard(guardCfg), apiHandler.Me)
}
