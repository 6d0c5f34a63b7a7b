package handler

import (
	appinv "github.com/bizops/backend/internal/application/inventory"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler serves read-only stock and ledger views
type StockHandler struct {
	BaseHandler
	queries *appinv.StockQueryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(queries *appinv.StockQueryService) *StockHandler {
	return &StockHandler{queries: queries}
}

// GetItem returns the stock view for one warehouse-product pair
// GET /api/v1/warehouses/:warehouseID/stock/:productID
func (h *StockHandler) GetItem(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	warehouseID, err := uuid.Parse(c.Param("warehouseID"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	item, err := h.queries.GetItem(c.Request.Context(), tenantID, userID, warehouseID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems returns the stock views of one warehouse
// GET /api/v1/warehouses/:warehouseID/stock
func (h *StockHandler) ListItems(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	warehouseID, err := uuid.Parse(c.Param("warehouseID"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.queries.ListItems(c.Request.Context(), tenantID, userID, warehouseID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListMovements returns ledger history, newest first
// GET /api/v1/stock-movements
func (h *StockHandler) ListMovements(c *gin.Context) {
	tenantID, userID, err := identityFrom(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req dto.ListMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := inventory.MovementFilter{
		Filter:      shared.DefaultFilter(),
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		Reference:   req.Reference,
	}
	if req.SourceType != "" {
		sourceType := inventory.SourceType(req.SourceType)
		filter.SourceType = &sourceType
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	page, err := h.queries.ListMovements(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
