package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type priceListRepository struct {
	db *gorm.DB
}

// NewPriceListRepository creates a new price list repository
func NewPriceListRepository(db *gorm.DB) domainRepo.PriceListRepository {
	return &priceListRepository{db: db}
}

func (r *priceListRepository) Create(ctx context.Context, list *entity.PriceList) error {
	return TranslateError(conn(ctx, r.db).Omit("Items").Create(list).Error)
}

func (r *priceListRepository) GetDefault(ctx context.Context) (*entity.PriceList, error) {
	var list entity.PriceList
	err := conn(ctx, r.db).
		Where("is_default = ?", true).
		Order("created_at ASC").
		First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &list, TranslateError(err)
}

func (r *priceListRepository) GetItem(ctx context.Context, priceListID, productID uuid.UUID) (*entity.PriceListItem, error) {
	var item entity.PriceListItem
	err := conn(ctx, r.db).
		First(&item, "price_list_id = ? AND product_id = ?", priceListID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, TranslateError(err)
}

func (r *priceListRepository) UpsertItem(ctx context.Context, item *entity.PriceListItem) error {
	item.UpdatedAt = time.Now()
	return TranslateError(conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "price_list_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selling_price", "product_name", "updated_at"}),
	}).Create(item).Error)
}
