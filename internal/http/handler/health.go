package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfchat/internal/model"
	"pdfchat/internal/repository"
)

// DiagnosticsReporter produces the /test report. Implementations must not fail.
type DiagnosticsReporter interface {
	Report(ctx context.Context) model.Diagnostics
}

// Diagnostics godoc
// @Summary Backend and datastore diagnostics
// @Description Always 200; problems are described in the body.
// @Tags meta
// @Produce json
// @Success 200 {object} model.Diagnostics
// @Router /test [get]
func Diagnostics(r DiagnosticsReporter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(r.Report(c.UserContext()))
	}
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Pings the datastore.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(in repository.Inspector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if in == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := in.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
