package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	syncapp "github.com/wcorders/backend/internal/application/syncing"
	"github.com/wcorders/backend/internal/domain/syncing"
)

// StoreHandler handles per-user store connection settings
type StoreHandler struct {
	BaseHandler
	credentialsService *syncapp.CredentialsService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(credentialsService *syncapp.CredentialsService) *StoreHandler {
	return &StoreHandler{credentialsService: credentialsService}
}

// SaveCredentialsRequest is the body for creating or replacing credentials
type SaveCredentialsRequest struct {
	StoreURL       string `json:"store_url" binding:"required,url"`
	ConsumerKey    string `json:"consumer_key" binding:"required"`
	ConsumerSecret string `json:"consumer_secret" binding:"required"`
}

// CredentialsResponse echoes stored credentials with the secret masked
type CredentialsResponse struct {
	StoreURL       string    `json:"store_url"`
	ConsumerKey    string    `json:"consumer_key"`
	ConsumerSecret string    `json:"consumer_secret"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toCredentialsResponse(creds *syncing.Credentials) CredentialsResponse {
	return CredentialsResponse{
		StoreURL:       creds.StoreURL,
		ConsumerKey:    creds.ConsumerKey,
		ConsumerSecret: maskSecret(creds.ConsumerSecret),
		UpdatedAt:      creds.UpdatedAt,
	}
}

// maskSecret hides all but the last four characters of a secret
func maskSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

// Get returns the caller's stored credentials
func (h *StoreHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	creds, err := h.credentialsService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCredentialsResponse(creds))
}

// Save creates or replaces the caller's credentials
func (h *StoreHandler) Save(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SaveCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	creds, err := h.credentialsService.Upsert(c.Request.Context(), userID, req.StoreURL, req.ConsumerKey, req.ConsumerSecret)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCredentialsResponse(creds))
}

// RegisterRoutes registers store credential routes
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	store := rg.Group("/store")
	{
		store.GET("/credentials", h.Get)
		store.PUT("/credentials", h.Save)
	}
}
