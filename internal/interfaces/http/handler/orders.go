package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderdataapp "github.com/wcorders/backend/internal/application/orderdata"
	"github.com/wcorders/backend/internal/domain/shared"
	"github.com/wcorders/backend/internal/interfaces/http/dto"
)

// OrderHandler handles imported order read endpoints and the purge
type OrderHandler struct {
	BaseHandler
	queryService *orderdataapp.QueryService
	purgeService *orderdataapp.PurgeService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(queryService *orderdataapp.QueryService, purgeService *orderdataapp.PurgeService) *OrderHandler {
	return &OrderHandler{
		queryService: queryService,
		purgeService: purgeService,
	}
}

// ListOrdersRequest extends list paging with an optional relative date filter
type ListOrdersRequest struct {
	dto.ListRequest
	DateRange string `form:"date_range" binding:"omitempty,oneof=1d 1w 1m 1y"`
}

// List returns the caller's orders, optionally limited to a trailing window
func (h *OrderHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.queryService.ListOrders(c.Request.Context(), userID, req.ToFilter(), orderdataapp.DateRange(req.DateRange))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Get returns one order by its remote order id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid order id")
		return
	}

	order, err := h.queryService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(*order))
}

// ListItems returns the caller's order line items
func (h *OrderHandler) ListItems(c *gin.Context) {
	h.listChildren(c, func(ctx *gin.Context, deps childListDeps) (any, error) {
		items, err := h.queryService.ListOrderItems(ctx.Request.Context(), deps.userID, deps.filter)
		if err != nil {
			return nil, err
		}
		return toOrderItemResponses(items), nil
	})
}

// ListAddresses returns the caller's order address snapshots
func (h *OrderHandler) ListAddresses(c *gin.Context) {
	h.listChildren(c, func(ctx *gin.Context, deps childListDeps) (any, error) {
		addresses, err := h.queryService.ListAddresses(ctx.Request.Context(), deps.userID, deps.filter)
		if err != nil {
			return nil, err
		}
		return toAddressResponses(addresses), nil
	})
}

// ListShippingMethods returns the caller's shipping lines
func (h *OrderHandler) ListShippingMethods(c *gin.Context) {
	h.listChildren(c, func(ctx *gin.Context, deps childListDeps) (any, error) {
		methods, err := h.queryService.ListShippingMethods(ctx.Request.Context(), deps.userID, deps.filter)
		if err != nil {
			return nil, err
		}
		return toShippingMethodResponses(methods), nil
	})
}

// ListCoupons returns the caller's applied coupons
func (h *OrderHandler) ListCoupons(c *gin.Context) {
	h.listChildren(c, func(ctx *gin.Context, deps childListDeps) (any, error) {
		coupons, err := h.queryService.ListCoupons(ctx.Request.Context(), deps.userID, deps.filter)
		if err != nil {
			return nil, err
		}
		return toCouponResponses(coupons), nil
	})
}

// ListTaxes returns the caller's tax lines
func (h *OrderHandler) ListTaxes(c *gin.Context) {
	h.listChildren(c, func(ctx *gin.Context, deps childListDeps) (any, error) {
		taxes, err := h.queryService.ListTaxes(ctx.Request.Context(), deps.userID, deps.filter)
		if err != nil {
			return nil, err
		}
		return toTaxResponses(taxes), nil
	})
}

// Purge deletes all of the caller's imported data and resets the watermark
func (h *OrderHandler) Purge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.purgeService.PurgeUser(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

type childListDeps struct {
	userID uuid.UUID
	filter shared.Filter
}

// listChildren factors the shared auth + paging plumbing of child listings
func (h *OrderHandler) listChildren(c *gin.Context, list func(*gin.Context, childListDeps) (any, error)) {
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

	data, err := list(c, childListDeps{userID: userID, filter: req.ToFilter()})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, data)
}

// RegisterRoutes registers order data routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.DELETE("", h.Purge)
		orders.GET("/:order_id", h.Get)
	}

	rg.GET("/order-items", h.ListItems)
	rg.GET("/addresses", h.ListAddresses)
	rg.GET("/shipping-methods", h.ListShippingMethods)
	rg.GET("/coupons", h.ListCoupons)
	rg.GET("/taxes", h.ListTaxes)
}
