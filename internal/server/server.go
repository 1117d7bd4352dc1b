// Package server assembles the Fiber application: middleware chain, routes
// and the dependency graph behind them.
package server

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go-cdms-inventory/internal/config"
	"go-cdms-inventory/internal/handler"
	"go-cdms-inventory/internal/metrics"
	"go-cdms-inventory/internal/middleware"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/internal/response"
	"go-cdms-inventory/internal/service"
	"go-cdms-inventory/internal/ws"
	"go-cdms-inventory/pkg/jwt"
)

const appName = "CDMS Inventory"

// Deps are the long-lived collaborators built by main. Hub and Metrics are
// optional.
type Deps struct {
	Config  *config.Config
	Log     *logrus.Logger
	DB      *gorm.DB
	Hub     *ws.Hub
	Metrics *metrics.Metrics
}

// New wires repositories, services and handlers and registers every route.
func New(d Deps) *fiber.App {
	cfg := d.Config

	// Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(d.DB)
	barangRepo := repository.NewBarangRepo(d.DB)
	auditRepo := repository.NewAuditLogRepo(d.DB)

	var notifier service.Notifier
	if d.Hub != nil {
		notifier = d.Hub
	}

	auditService := service.NewAuditLogService(auditRepo, d.Metrics)
	authService := service.NewAuthService(userRepo, jwt.NewManager(cfg.JWT), auditService, d.Log)
	barangService := service.NewBarangService(barangRepo, notifier)

	authHandler := handler.NewAuthHandler(authService)
	barangHandler := handler.NewBarangHandler(barangService)
	auditHandler := handler.NewAuditLogHandler(auditService)
	healthHandler := handler.NewHealthHandler(d.DB, d.Log)
	audit := middleware.NewAuditInterceptor(auditService, d.Metrics, d.Log)

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: response.ErrorHandler(d.Log, cfg.IsDevelopment()),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: d.Log.Writer()}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORS.AllowOrigins}))
	if d.Metrics != nil {
		app.Use(middleware.RequestMetrics(d.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", response.Handle(authHandler.Register))
	auth.Post("/login", response.Handle(authHandler.Login))
	auth.Get("/me", middleware.RequireAuth(authService), response.Handle(authHandler.Me))

	// ============ PROTECTED ROUTES ============
	anyRole := middleware.RequireRoles(authService, model.AllRoles...)
	canMutate := middleware.RequireRoles(authService, model.RoleAdmin, model.RoleWarehouseOperator)
	canAudit := middleware.RequireRoles(authService, model.RoleAdmin, model.RoleAuditor)

	barang := api.Group("/barang", middleware.RequireAuth(authService))
	barang.Get("/", anyRole, response.Handle(barangHandler.List))
	barang.Get("/:id", anyRole, response.Handle(barangHandler.Get))
	barang.Post("/", canMutate, audit.Wrap(model.EntityBarang, nil, barangHandler.Create))
	barang.Put("/:id", canMutate, audit.Wrap(model.EntityBarang, barangService.Snapshot, barangHandler.Update))
	barang.Patch("/:id", canMutate, audit.Wrap(model.EntityBarang, barangService.Snapshot, barangHandler.Update))
	barang.Delete("/:id", canMutate, audit.Wrap(model.EntityBarang, barangService.Snapshot, barangHandler.Delete))

	auditLog := api.Group("/audit-log", middleware.RequireAuth(authService), canAudit)
	auditLog.Get("/", response.Handle(auditHandler.List))
	auditLog.Get("/:id", response.Handle(auditHandler.Get))

	// WebSocket Route
	if d.Hub != nil {
		registerWebSocket(app, d.Hub)
	}

	app.Use(response.NotFound)

	return app
}

func registerWebSocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !hub.Attach(c) {
			return
		}
		defer hub.Detach(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
