package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/sangkips/retail-ledger/pkg/money"
	"github.com/sangkips/retail-ledger/pkg/pagination"
	"github.com/shopspring/decimal"
)

const defaultProductUnit = "kg"

// StockService owns the append-only inventory ledger. Stock levels are
// always folded from movements and never stored.
type StockService struct {
	txManager    repository.TxManager
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	prices       *PriceListService
	logger       *slog.Logger
}

// NewStockService creates a new stock service
func NewStockService(
	txManager repository.TxManager,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	prices *PriceListService,
	logger *slog.Logger,
) *StockService {
	return &StockService{
		txManager:    txManager,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		prices:       prices,
		logger:       logger,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name             string
	Category         *string
	Unit             string
	AutoDeductOnSale *bool
	SellingPrice     *decimal.Decimal
	ActorID          uuid.UUID
}

// StockMovementInput describes one ledger entry to append
type StockMovementInput struct {
	ProductID        uuid.UUID
	Quantity         decimal.Decimal
	Reason           enum.MovementReason
	ActorID          uuid.UUID
	ExpenseItemID    *uuid.UUID
	FundedByBusiness *bool
	GroupID          *string
	ReceiptID        *uuid.UUID
	OrderItemID      *uuid.UUID
	Notes            *string
}

// CreateProduct registers a product, optionally pricing it on the default list
func (s *StockService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}

	product := &entity.Product{
		Name:             name,
		Category:         input.Category,
		Unit:             strings.TrimSpace(input.Unit),
		AutoDeductOnSale: true,
		CreatedBy:        input.ActorID,
	}
	if product.Unit == "" {
		product.Unit = defaultProductUnit
	}
	if input.AutoDeductOnSale != nil {
		product.AutoDeductOnSale = *input.AutoDeductOnSale
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
		if input.SellingPrice != nil {
			if _, err := s.prices.SetSellingPrice(ctx, product.ID, *input.SellingPrice); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	product.CurrentStock = decimal.Zero
	return product, nil
}

// GetProduct returns a product with its stock level filled in
func (s *StockService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	stock, err := s.stockLevel(ctx, id)
	if err != nil {
		return nil, err
	}
	product.CurrentStock = stock
	return product, nil
}

// CurrentStock returns Σ IN − Σ OUT for the product
func (s *StockService) CurrentStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, apperror.NewNotFoundError("Product")
	}
	return s.stockLevel(ctx, productID)
}

func (s *StockService) stockLevel(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	movements, err := s.movementRepo.ListByProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return foldStock(movements), nil
}

func foldStock(movements []entity.StockMovement) decimal.Decimal {
	level := decimal.Zero
	for _, m := range movements {
		level = level.Add(m.Signed())
	}
	return money.RoundQuantity(level)
}

// AddStock appends an IN movement
func (s *StockService) AddStock(ctx context.Context, input *StockMovementInput) (*entity.StockMovement, error) {
	movement, err := s.newMovement(input, enum.MovementTypeIn)
	if err != nil {
		return nil, err
	}
	if movement.FundedByBusiness && movement.Reason == enum.MovementReasonPurchase && movement.ExpenseItemID == nil {
		return nil, apperror.Validation("business-funded purchases must reference an expense item")
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.LockByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}
		return s.movementRepo.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.logMovement(ctx, movement)
	return movement, nil
}

// RemoveStock appends an OUT movement. The product row is locked and the
// level recomputed inside the transaction so two removals cannot both spend
// the same units.
func (s *StockService) RemoveStock(ctx context.Context, input *StockMovementInput) (*entity.StockMovement, error) {
	movement, err := s.newMovement(input, enum.MovementTypeOut)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.LockByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		available, err := s.stockLevel(ctx, product.ID)
		if err != nil {
			return err
		}
		if movement.Quantity.GreaterThan(available) {
			return apperror.NewInsufficientStockError(fmt.Sprintf(
				"insufficient stock for %s: requested %s, available %s",
				product.Name,
				movement.Quantity.String(),
				available.String(),
			))
		}
		return s.movementRepo.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.logMovement(ctx, movement)
	return movement, nil
}

func (s *StockService) newMovement(input *StockMovementInput, movementType enum.MovementType) (*entity.StockMovement, error) {
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, apperror.Validation("product is required")
	}
	if err := money.ValidateQuantity("quantity", input.Quantity); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if !input.Reason.ValidFor(movementType) {
		return nil, apperror.Validation(fmt.Sprintf("reason %s is not valid for %s movements", input.Reason, movementType))
	}

	funded := true
	if input.FundedByBusiness != nil {
		funded = *input.FundedByBusiness
	}

	return &entity.StockMovement{
		ProductID:        input.ProductID,
		Quantity:         input.Quantity,
		MovementType:     movementType,
		Reason:           input.Reason,
		ExpenseItemID:    input.ExpenseItemID,
		FundedByBusiness: funded,
		PerformedBy:      input.ActorID,
		GroupID:          input.GroupID,
		ReceiptID:        input.ReceiptID,
		OrderItemID:      input.OrderItemID,
		Notes:            input.Notes,
	}, nil
}

func (s *StockService) logMovement(ctx context.Context, m *entity.StockMovement) {
	s.logger.InfoContext(ctx, "stock movement recorded",
		slog.String("movement_id", m.ID.String()),
		slog.String("product_id", m.ProductID.String()),
		slog.String("type", m.MovementType.String()),
		slog.String("reason", m.Reason.String()),
		slog.String("quantity", m.Quantity.String()),
	)
}

// ListMovements returns a page of ledger entries filtered by product, group or receipt
func (s *StockService) ListMovements(ctx context.Context, params *repository.MovementFilterParams) ([]entity.StockMovement, *pagination.Page, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultParams()
	}
	movements, total, err := s.movementRepo.List(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	return movements, pagination.NewPage(params.Pagination, total), nil
}
