package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest represents a shift opening
type OpenSessionRequest struct {
	OpeningCash *decimal.Decimal `json:"opening_cash" binding:"required"`
}

// CloseSessionRequest represents a shift closing
type CloseSessionRequest struct {
	ClosingCash *decimal.Decimal `json:"closing_cash" binding:"required"`
}

// CreateReceiptRequest represents a new receipt on a session
type CreateReceiptRequest struct {
	SessionID     uuid.UUID `json:"session_id" binding:"required"`
	ReceiptNumber string    `json:"receipt_number" binding:"omitempty,max=50"`
}

// AddOrderItemRequest represents one sold line
type AddOrderItemRequest struct {
	ProductID      uuid.UUID        `json:"product_id" binding:"required"`
	Quantity       *decimal.Decimal `json:"quantity" binding:"required"`
	FinalPrice     *decimal.Decimal `json:"final_price" binding:"required"`
	OverrideReason string           `json:"override_reason" binding:"omitempty,max=255"`
}

// SetDiscountRequest represents a receipt discount
type SetDiscountRequest struct {
	Discount *decimal.Decimal `json:"discount" binding:"required"`
}

// FinalizeReceiptRequest controls stock emission; it defaults to on
type FinalizeReceiptRequest struct {
	EmitStock *bool `json:"emit_stock"`
}

// AcceptPaymentRequest represents one tender
type AcceptPaymentRequest struct {
	Amount *decimal.Decimal   `json:"amount" binding:"required"`
	Method enum.PaymentMethod `json:"method" binding:"required"`
}

// CreateCreditRequest represents a credit sale
type CreateCreditRequest struct {
	CustomerName  string `json:"customer_name" binding:"required,min=2,max=255"`
	CustomerPhone string `json:"customer_phone" binding:"omitempty,max=30"`
	DueDate       string `json:"due_date" binding:"required,datetime=2006-01-02"`
}

// RefundRequest represents a refund
type RefundRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
