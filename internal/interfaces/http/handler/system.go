package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports backing-store health
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      Pinger
	started time.Time
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, version string) *SystemHandler {
	return &SystemHandler{
		db:      db,
		started: time.Now(),
		version: version,
	}
}

// HealthResponse reports service health
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

// Health reports liveness plus a database check
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Database: "ok",
	}

	status := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, resp)
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}
