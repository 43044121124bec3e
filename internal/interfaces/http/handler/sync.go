package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wcorders/backend/internal/domain/syncing"
	"github.com/wcorders/backend/internal/infrastructure/scheduler"
)

// SyncHandler handles sync trigger and monitoring endpoints
type SyncHandler struct {
	BaseHandler
	scheduler     *scheduler.SyncScheduler
	watermarkRepo syncing.WatermarkRepository
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(s *scheduler.SyncScheduler, watermarkRepo syncing.WatermarkRepository) *SyncHandler {
	return &SyncHandler{scheduler: s, watermarkRepo: watermarkRepo}
}

// TriggerResponse acknowledges an accepted sync run
type TriggerResponse struct {
	JobID      string    `json:"job_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// WatermarkResponse reports the caller's incremental sync position
type WatermarkResponse struct {
	LastSyncTime time.Time `json:"last_sync_time"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Trigger enqueues a sync run for the caller
func (h *SyncHandler) Trigger(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	job, err := h.scheduler.Trigger(userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, TriggerResponse{
		JobID:      job.ID.String(),
		EnqueuedAt: job.EnqueuedAt,
	})
}

// History returns recent run summaries for the caller, newest first
func (h *SyncHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			h.BadRequest(c, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	h.Success(c, h.scheduler.HistoryForUser(userID, limit))
}

// Watermark returns the caller's current sync watermark
func (h *SyncHandler) Watermark(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	watermark, err := h.watermarkRepo.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, WatermarkResponse{
		LastSyncTime: watermark.LastSyncTime,
		UpdatedAt:    watermark.UpdatedAt,
	})
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/runs", h.Trigger)
		sync.GET("/runs", h.History)
		sync.GET("/watermark", h.Watermark)
	}
}
