package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	orderdataapp "github.com/wcorders/backend/internal/application/orderdata"
	"github.com/wcorders/backend/internal/interfaces/http/dto"
)

// CatalogHandler handles the shared product and category catalog
type CatalogHandler struct {
	BaseHandler
	queryService *orderdataapp.QueryService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(queryService *orderdataapp.QueryService) *CatalogHandler {
	return &CatalogHandler{queryService: queryService}
}

// ListProducts returns catalog products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.queryService.ListProducts(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toProductResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// GetProduct returns one catalog product by its remote product id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.queryService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(*product))
}

// ListCategories returns catalog categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.queryService.ListCategories(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toCategoryResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:product_id", h.GetProduct)
	rg.GET("/categories", h.ListCategories)
}
