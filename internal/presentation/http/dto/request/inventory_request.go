package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name             string           `json:"name" binding:"required,min=2,max=255"`
	Category         *string          `json:"category" binding:"omitempty,max=100"`
	Unit             string           `json:"unit" binding:"omitempty,max=20"`
	AutoDeductOnSale *bool            `json:"auto_deduct_on_sale"`
	SellingPrice     *decimal.Decimal `json:"selling_price"`
}

// SetPriceRequest sets a product's price on the default list
type SetPriceRequest struct {
	SellingPrice *decimal.Decimal `json:"selling_price" binding:"required"`
}

// StockMovementRequest represents a manual stock in or stock out
type StockMovementRequest struct {
	ProductID        uuid.UUID           `json:"product_id" binding:"required"`
	Quantity         *decimal.Decimal    `json:"quantity" binding:"required"`
	Reason           enum.MovementReason `json:"reason" binding:"required"`
	ExpenseItemID    *uuid.UUID          `json:"expense_item_id"`
	FundedByBusiness *bool               `json:"funded_by_business"`
	GroupID          *string             `json:"group_id" binding:"omitempty,max=100"`
	Notes            *string             `json:"notes" binding:"omitempty,max=1000"`
}

// CreateReconciliationRequest represents a physical count
type CreateReconciliationRequest struct {
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	CountedQuantity *decimal.Decimal `json:"counted_quantity" binding:"required"`
	Notes           *string          `json:"notes" binding:"omitempty,max=1000"`
}

// RejectReconciliationRequest carries the reviewer's notes
type RejectReconciliationRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=1000"`
}

// MovementFilterRequest represents movement history filters
type MovementFilterRequest struct {
	GroupID string `form:"group_id"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
