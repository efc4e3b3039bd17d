package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/sangkips/retail-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

const defaultPriceListName = "Default"

// PriceLookup resolves the selling price a POS line is snapshotted from
type PriceLookup interface {
	CurrentSellingPrice(ctx context.Context, productID uuid.UUID) (uuid.UUID, decimal.Decimal, error)
}

// PriceListService manages selling prices on the default price list
type PriceListService struct {
	txManager     repository.TxManager
	priceListRepo repository.PriceListRepository
	productRepo   repository.ProductRepository
	logger        *slog.Logger
}

// NewPriceListService creates a new price list service
func NewPriceListService(
	txManager repository.TxManager,
	priceListRepo repository.PriceListRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) *PriceListService {
	return &PriceListService{
		txManager:     txManager,
		priceListRepo: priceListRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// CurrentSellingPrice returns the default list id and the product's price on it
func (s *PriceListService) CurrentSellingPrice(ctx context.Context, productID uuid.UUID) (uuid.UUID, decimal.Decimal, error) {
	list, err := s.priceListRepo.GetDefault(ctx)
	if err != nil {
		return uuid.Nil, decimal.Zero, err
	}
	if list == nil {
		return uuid.Nil, decimal.Zero, apperror.Validation("no default price list is configured")
	}

	item, err := s.priceListRepo.GetItem(ctx, list.ID, productID)
	if err != nil {
		return uuid.Nil, decimal.Zero, err
	}
	if item == nil {
		return uuid.Nil, decimal.Zero, apperror.Validation("product has no selling price on the default price list")
	}
	return list.ID, item.SellingPrice, nil
}

// SetSellingPrice sets the product's price on the default list, creating the
// list on first use. Existing order lines keep the price they snapshotted.
func (s *PriceListService) SetSellingPrice(ctx context.Context, productID uuid.UUID, price decimal.Decimal) (*entity.PriceListItem, error) {
	if err := money.ValidateNonNegativeAmount("selling_price", price); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var item *entity.PriceListItem
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		list, err := s.priceListRepo.GetDefault(ctx)
		if err != nil {
			return err
		}
		if list == nil {
			list = &entity.PriceList{Name: defaultPriceListName, IsDefault: true}
			if err := s.priceListRepo.Create(ctx, list); err != nil {
				return err
			}
		}

		item = &entity.PriceListItem{
			PriceListID:  list.ID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			SellingPrice: money.RoundMoney(price),
		}
		if err := s.priceListRepo.UpsertItem(ctx, item); err != nil {
			return err
		}
		// Upsert may keep the existing row id; re-read it
		item, err = s.priceListRepo.GetItem(ctx, list.ID, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "selling price updated",
		slog.String("product_id", productID.String()),
		slog.String("selling_price", item.SellingPrice.StringFixed(money.MoneyScale)),
	)
	return item, nil
}
