package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
)

// HealthHandler reports process and database health
type HealthHandler struct {
	BaseHandler
	db        middleware.Pinger
	timeout   time.Duration
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db middleware.Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		timeout:   middleware.DefaultDBPingTimeout,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database" example:"up"`
	Version  string `json:"version" example:"1.0.0"`
	Uptime   string `json:"uptime" example:"1h30m45s"`
}

// Check godoc
// @ID           healthCheck
// @Summary      Health check
// @Description  Pings the database. Answers 503 when it does not respond within 2s.
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:   "healthy",
		Database: "up",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
