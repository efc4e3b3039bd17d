package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	// GetDetailed loads the receipt with orders, items, payments, credit account and stock audit
	GetDetailed(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	// LockByID reads the receipt with a row lock held until the transaction ends
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	ExistsByNumber(ctx context.Context, receiptNumber string) (bool, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID, params *pagination.Params) ([]entity.Receipt, int64, error)
	// UpdateFields writes only the named columns
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

// OrderRepository defines the interface for order and order item data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// ListByReceipt returns the receipt's orders with their items preloaded
	ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.Order, error)
	CountByReceipt(ctx context.Context, receiptID uuid.UUID) (int64, error)
	AddItem(ctx context.Context, item *entity.OrderItem) error
	MarkSavedByReceipt(ctx context.Context, receiptID uuid.UUID) error
	MarkRefundedByReceipt(ctx context.Context, receiptID uuid.UUID) error
}
