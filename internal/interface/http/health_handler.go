package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// HealthHandler probes Postgres, which registration cannot work without, and
// Redis, whose loss only disables sessions.
type HealthHandler struct {
	Database Check
	Sessions Check
}

func NewHealthHandler(database, sessions Check) *HealthHandler {
	return &HealthHandler{Database: database, Sessions: sessions}
}

// Health godoc
// @Summary  Liveness and dependency reachability
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /healthz [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "database": probe(ctx, h.Database), "redis": probe(ctx, h.Sessions)}
	switch {
	case body["database"] == "down":
		body["status"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	case body["redis"] == "down":
		body["status"] = "degraded"
	}
	c.JSON(http.StatusOK, body)
}

func probe(ctx context.Context, check Check) string {
	if check == nil {
		return "disabled"
	}
	if err := check(ctx); err != nil {
		return "down"
	}
	return "up"
}
