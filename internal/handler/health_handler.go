package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go-cdms-inventory/internal/response"
	"go-cdms-inventory/pkg/database"
)

const healthPingTimeout = 2 * time.Second

type healthBody struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthHandler struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewHealthHandler(db *gorm.DB, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// Check is the unauthenticated liveness probe. It answers 503 when the
// database does not respond.
// GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthPingTimeout)
	defer cancel()

	now := time.Now().UTC()
	if err := database.Ping(ctx, h.db); err != nil {
		h.log.WithError(err).Warn("health: database ping failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(healthBody{
			Status:    response.StatusError,
			Message:   "Database unreachable",
			Database:  "down",
			Timestamp: now,
		})
	}
	return c.JSON(healthBody{
		Status:    response.StatusSuccess,
		Message:   "Server is running",
		Database:  "up",
		Timestamp: now,
	})
}
