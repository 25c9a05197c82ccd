package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/goccy/go-json"
	_ "github.com/joho/godotenv/autoload"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/config"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/database"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/depot"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/directory"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/logging"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/routes"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/services"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/session"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/web"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	level := logging.ParseLevel(cfg.LogLevel)
	logging.Setup(level)

	if cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	signupRole, err := guard.ParseRole(cfg.SignupRole)
	if err != nil {
		slog.Error("invalid SIGNUP_ROLE", "role", cfg.SignupRole, "error", err)
		os.Exit(1)
	}

	// Depot registry
	depots, err := depot.LoadFromFile(cfg.DepotsConfigPath)
	if err != nil {
		slog.Error("failed to load depot registry", "path", cfg.DepotsConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("depot registry loaded", "depots", len(depots.All()))

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateShared(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records also go to system_logs
	dbLogHandler := logging.NewDBHandler(database.DB, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
		dbLogHandler,
	)))

	done := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetain, done)

	// Sessions and roles
	sessions := session.NewStore(database.DB, cfg.SessionSecret, cfg.SessionTTL)
	session.StartPurge(sessions, cfg.SessionPurgeAt, done)
	roles := directory.New(database.DB)

	m := metrics.New()
	g := guard.New(sessions, roles, guard.Destinations{
		Login:   cfg.LoginPath,
		Pending: cfg.PendingPath,
		Landing: cfg.LandingPath,
	}, guard.WithDeniedNotice(cfg.DeniedNotice))
	guardCfg := middleware.GuardConfig{Guard: g, Cookie: cfg.SessionCookie, Metrics: m}

	// Services
	authService := services.NewAuthService(database.DB, sessions, roles, signupRole)
	inventoryService := services.NewInventoryService(database.DB)

	// Handlers
	loc := cfg.Location()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	pageHandler := handlers.NewPageHandler(inventoryService, roles, depots, loc)
	exportHandler := handlers.NewExportHandler(inventoryService, loc)
	healthHandler := handlers.NewHealthHandler(depots)
	apiHandler := handlers.NewAPIHandler(depots)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		Views:        web.NewEngine(loc),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, guardCfg, m, authHandler, pageHandler, exportHandler, healthHandler, apiHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(done)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.ErrorContext(c.UserContext(), "unhandled server error",
			"method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
