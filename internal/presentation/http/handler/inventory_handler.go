package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/retail-ledger/pkg/pagination"
)

type movementOp func(ctx context.Context, input *service.StockMovementInput) (*entity.StockMovement, error)

// InventoryHandler handles products, prices and manual stock movements
type InventoryHandler struct {
	stock  *service.StockService
	prices *service.PriceListService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(stock *service.StockService, prices *service.PriceListService) *InventoryHandler {
	return &InventoryHandler{stock: stock, prices: prices}
}

// CreateProduct handles product creation
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.stock.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Name:             req.Name,
		Category:         req.Category,
		Unit:             req.Unit,
		AutoDeductOnSale: req.AutoDeductOnSale,
		SellingPrice:     req.SellingPrice,
		ActorID:          actorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Product created successfully", product)
}

// GetProduct returns a product with its current stock
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.stock.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", product)
}

// SetPrice sets a product's selling price on the default list
func (h *InventoryHandler) SetPrice(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.SetPriceRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.prices.SetSellingPrice(c.Request.Context(), id, *req.SellingPrice)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Price updated successfully", item)
}

// Stock returns Σ IN − Σ OUT for a product
func (h *InventoryHandler) Stock(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	level, err := h.stock.CurrentStock(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock retrieved successfully", gin.H{
		"product_id":    id,
		"current_stock": level,
	})
}

// Movements lists a product's ledger entries, newest first
func (h *InventoryHandler) Movements(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var filter request.MovementFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if _, err := h.stock.CurrentStock(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	movements, page, err := h.stock.ListMovements(c.Request.Context(), &repository.MovementFilterParams{
		Pagination: &pagination.Params{Page: filter.Page, PerPage: filter.PerPage},
		ProductID:  &id,
		GroupID:    filter.GroupID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Movements retrieved successfully", pagination.NewResult(movements, page))
}

// StockIn appends an IN movement
func (h *InventoryHandler) StockIn(c *gin.Context) {
	h.move(c, h.stock.AddStock, "Stock added successfully")
}

// StockOut appends an OUT movement
func (h *InventoryHandler) StockOut(c *gin.Context) {
	h.move(c, h.stock.RemoveStock, "Stock removed successfully")
}

func (h *InventoryHandler) move(c *gin.Context, op movementOp, message string) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.StockMovementRequest
	if !bindJSON(c, &req) {
		return
	}

	movement, err := op(c.Request.Context(), &service.StockMovementInput{
		ProductID:        req.ProductID,
		Quantity:         *req.Quantity,
		Reason:           req.Reason,
		ActorID:          actorID,
		ExpenseItemID:    req.ExpenseItemID,
		FundedByBusiness: req.FundedByBusiness,
		GroupID:          req.GroupID,
		Notes:            req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message, movement)
}
