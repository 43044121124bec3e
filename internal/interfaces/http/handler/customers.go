package handler

import (
	"github.com/gin-gonic/gin"

	orderdataapp "github.com/wcorders/backend/internal/application/orderdata"
	"github.com/wcorders/backend/internal/interfaces/http/dto"
)

// CustomerHandler handles imported customer and payment gateway endpoints
type CustomerHandler struct {
	BaseHandler
	queryService *orderdataapp.QueryService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(queryService *orderdataapp.QueryService) *CustomerHandler {
	return &CustomerHandler{queryService: queryService}
}

// List returns the caller's imported customers
func (h *CustomerHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.queryService.ListCustomers(c.Request.Context(), userID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toCustomerResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// ListPaymentGateways returns the caller's payment gateway usage records
func (h *CustomerHandler) ListPaymentGateways(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.queryService.ListPaymentGateways(c.Request.Context(), userID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPaymentGatewayResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/customers", h.List)
	rg.GET("/payment-gateways", h.ListPaymentGateways)
}
