// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// pingTimeout bounds each dependency check.
const pingTimeout = 2 * time.Second

// Check is a named dependency probed for readiness.
type Check struct {
	Name   string
	Pinger app.Pinger
}

// Routes registers /health, /health/ready and /health/live.
// /health and /health/ready fail with 503 when any check fails.
func Routes(fiberApp *fiber.App, checks ...Check) {
	ready := Ready(checks...)
	fiberApp.Get("/health", ready)
	fiberApp.Get("/health/ready", ready)
	fiberApp.Get("/health/live", Live())
}

// Live reports that the process is serving requests.
func Live() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "alive", fiber.Map{"status": "ok"})
	}
}

// Ready pings every check and reports their status.
func Ready(checks ...Check) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.Map{}
		healthy := true
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
			err := check.Pinger.Ping(ctx)
			cancel()
			if err != nil {
				healthy = false
				status[check.Name] = err.Error()
				continue
			}
			status[check.Name] = "ok"
		}
		if !healthy {
			return common.ErrorResponseJSON(c, fiber.StatusServiceUnavailable, "Service Unavailable", status)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "ready", status)
	}
}
