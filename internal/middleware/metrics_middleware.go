package middleware

import (
	"github.com/gofiber/fiber/v2"

	"go-cdms-inventory/internal/metrics"
	"go-cdms-inventory/internal/response"
)

// RequestMetrics counts served requests by route pattern and final status.
func RequestMetrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = response.StatusOf(err)
		}
		m.RequestServed(c.Method(), c.Route().Path, status)
		return err
	}
}
