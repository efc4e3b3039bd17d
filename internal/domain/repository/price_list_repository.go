package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
)

// PriceListRepository defines the interface for selling price data operations
type PriceListRepository interface {
	Create(ctx context.Context, list *entity.PriceList) error
	GetDefault(ctx context.Context) (*entity.PriceList, error)
	GetItem(ctx context.Context, priceListID, productID uuid.UUID) (*entity.PriceListItem, error)
	// UpsertItem inserts the item or replaces the selling price of an existing one
	UpsertItem(ctx context.Context, item *entity.PriceListItem) error
}
