package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// LockByID reads the product with a row lock; every ledger insert for the
	// product serializes on it
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}

// StockMovementRepository is the append-only inventory ledger. It exposes
// inserts and reads only.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct returns every movement of a product in insertion order
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.StockMovement, error)
	List(ctx context.Context, params *MovementFilterParams) ([]entity.StockMovement, int64, error)
	CreateAudit(ctx context.Context, audit *entity.POSStockMovement) error
	ListAuditByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.POSStockMovement, error)
}

// MovementFilterParams contains filtering parameters for movement queries
type MovementFilterParams struct {
	Pagination *pagination.Params
	ProductID  *uuid.UUID
	GroupID    string
	ReceiptID  *uuid.UUID
}

// ReconciliationRepository defines the interface for stock count data operations
type ReconciliationRepository interface {
	Create(ctx context.Context, reconciliation *entity.StockReconciliation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockReconciliation, error)
	LockByID(ctx context.Context, id uuid.UUID) (*entity.StockReconciliation, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ListPending(ctx context.Context, params *pagination.Params) ([]entity.StockReconciliation, int64, error)
}
