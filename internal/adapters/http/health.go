package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/butterflyguide/internal/core/ports"
)

// Version is stamped at build time with -ldflags "-X ...http.Version=...".
var Version = "dev"

const (
	readyTimeout = 3 * time.Second
	healthKey    = "__health_check__"

	stateOK            = "ok"
	stateNotConfigured = "not configured"
)

// HealthHandler answers liveness probes.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	species := len(deps.Species.List())

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"version": Version,
			"species": species,
		})
	}
}

// backendCheck probes one optional backend. It returns stateOK, stateNotConfigured
// or a failure description.
type backendCheck func(ctx context.Context) (state string, healthy bool)

func (d *Dependencies) backendChecks() map[string]backendCheck {
	return map[string]backendCheck{
		"database": func(ctx context.Context) (string, bool) {
			if d.DB == nil {
				return stateNotConfigured, true
			}
			if err := d.DB.Ping(ctx); err != nil {
				return "error: " + err.Error(), false
			}
			return stateOK, true
		},
		"nats": func(context.Context) (string, bool) {
			switch {
			case d.NATS == nil:
				return stateNotConfigured, true
			case !d.NATS.IsConnected():
				return "disconnected", false
			}
			return stateOK, true
		},
		"cache": func(ctx context.Context) (string, bool) {
			if d.Cache == nil {
				return stateNotConfigured, true
			}
			if _, err := d.Cache.Get(ctx, healthKey); err != nil && !errors.Is(err, ports.ErrCacheMiss) {
				return "error: " + err.Error(), false
			}
			return stateOK, true
		},
	}
}

// ReadyHandler runs every backend check. Unconfigured backends count as ready
// because the in-memory fallbacks serve instead.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	checks := deps.backendChecks()

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
		defer cancel()

		states := make(map[string]string, len(checks))
		ready := true
		for name, check := range checks {
			state, healthy := check(ctx)
			states[name] = state
			ready = ready && healthy
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "checks": states})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": states})
	}
}
