package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// Pinger is anything with a liveness probe: the Postgres connection,
// the Redis cache. Memory-backed deployments register none.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	version    string
	startedAt  time.Time
	components map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:    version,
		startedAt:  time.Now(),
		components: make(map[string]Pinger),
	}
}

// AddComponent registers a dependency for the readiness check.
func (h *HealthHandler) AddComponent(name string, p Pinger) {
	h.components[name] = p
}

// Register mounts the health routes on the router.
func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/health", h.Ready)
	e.GET("/health/live", h.Live)
	e.GET("/health/ready", h.Ready)
}

// Live handles GET /health/live: the process is up.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// componentStatus is one dependency's readiness result.
type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Ready handles GET /health/ready: every registered dependency must
// answer its ping. Any failure degrades the whole check to 503.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	healthy := true
	components := make(map[string]componentStatus, len(h.components))
	for name, p := range h.components {
		if err := p.Ping(ctx); err != nil {
			healthy = false
			components[name] = componentStatus{Status: "down", Error: err.Error()}
			continue
		}
		components[name] = componentStatus{Status: "up"}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.JSON(status, echo.Map{
		"status":     overall,
		"version":    h.version,
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"components": components,
	})
}
