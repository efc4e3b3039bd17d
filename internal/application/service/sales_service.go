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

// SalesService handles receipts, orders and order lines, and coordinates
// finalization with the inventory ledger.
type SalesService struct {
	txManager    repository.TxManager
	sessionRepo  repository.SessionRepository
	receiptRepo  repository.ReceiptRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	stock        *StockService
	prices       PriceLookup
	authz        Authorizer
	logger       *slog.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(
	txManager repository.TxManager,
	sessionRepo repository.SessionRepository,
	receiptRepo repository.ReceiptRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	stock *StockService,
	prices PriceLookup,
	authz Authorizer,
	logger *slog.Logger,
) *SalesService {
	return &SalesService{
		txManager:    txManager,
		sessionRepo:  sessionRepo,
		receiptRepo:  receiptRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		stock:        stock,
		prices:       prices,
		authz:        authz,
		logger:       logger,
	}
}

// CreateReceiptInput represents the create receipt input
type CreateReceiptInput struct {
	SessionID     uuid.UUID
	ActorID       uuid.UUID
	ReceiptNumber string
}

// CreateReceipt opens an empty receipt on an active session
func (s *SalesService) CreateReceipt(ctx context.Context, input *CreateReceiptInput) (*entity.Receipt, error) {
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}

	number := strings.TrimSpace(input.ReceiptNumber)
	if number == "" {
		number = fmt.Sprintf("RCP-%s", strings.ToUpper(uuid.New().String()[:8]))
	}

	var receipt *entity.Receipt
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.sessionRepo.GetByID(ctx, input.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperror.NewNotFoundError("Session")
		}
		if !session.IsActive {
			return apperror.Validation("session is not active")
		}

		exists, err := s.receiptRepo.ExistsByNumber(ctx, number)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicateError(fmt.Sprintf("receipt number %s already exists", number))
		}

		receipt = &entity.Receipt{
			ReceiptNumber: number,
			SessionID:     session.ID,
			CreatedBy:     input.ActorID,
			Subtotal:      decimal.Zero,
			Discount:      decimal.Zero,
			Total:         decimal.Zero,
			Status:        enum.ReceiptStatusOpen,
		}
		return s.receiptRepo.Create(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetReceipt returns a receipt with orders, payments, credit and stock audit
func (s *SalesService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceiptsBySession returns a page of a session's receipts, newest first
func (s *SalesService) ListReceiptsBySession(ctx context.Context, sessionID uuid.UUID, params *pagination.Params) ([]entity.Receipt, *pagination.Page, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, apperror.NewNotFoundError("Session")
	}

	if params == nil {
		params = pagination.DefaultParams()
	}
	receipts, total, err := s.receiptRepo.ListBySession(ctx, sessionID, params)
	if err != nil {
		return nil, nil, err
	}
	return receipts, pagination.NewPage(params, total), nil
}

// CreateOrder adds an empty basket to an open receipt
func (s *SalesService) CreateOrder(ctx context.Context, receiptID, actorID uuid.UUID) (*entity.Order, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}

	var order *entity.Order
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lockEditable(ctx, receiptID); err != nil {
			return err
		}

		order = &entity.Order{ReceiptID: receiptID, CreatedBy: actorID}
		return s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddOrderItemInput represents one sold line
type AddOrderItemInput struct {
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	Quantity       decimal.Decimal
	FinalPrice     decimal.Decimal
	ActorID        uuid.UUID
	OverrideReason string
}

// AddOrderItem snapshots the listed price and stores the line. Selling below
// or above the list requires a reason and the price override capability.
func (s *SalesService) AddOrderItem(ctx context.Context, input *AddOrderItemInput) (*entity.OrderItem, error) {
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if err := money.ValidateQuantity("quantity", input.Quantity); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := money.ValidateNonNegativeAmount("final_price", input.FinalPrice); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var item *entity.OrderItem
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if _, err := s.lockEditable(ctx, order.ReceiptID); err != nil {
			return err
		}

		product, err := s.productRepo.GetByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		priceListID, listed, err := s.prices.CurrentSellingPrice(ctx, product.ID)
		if err != nil {
			return err
		}

		item = &entity.OrderItem{
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			PriceListID: priceListID,
			Quantity:    input.Quantity,
			ListedPrice: listed,
			FinalPrice:  input.FinalPrice,
			SoldBy:      input.ActorID,
			LineTotal:   money.LineTotal(input.Quantity, input.FinalPrice),
		}

		if !input.FinalPrice.Equal(listed) {
			reason := strings.TrimSpace(input.OverrideReason)
			if reason == "" {
				return apperror.Validation("a reason is required when the final price differs from the listed price")
			}
			if !s.authz.HasCapability(ctx, input.ActorID, CapabilityOverridePrice) {
				return apperror.NewForbiddenError("you are not allowed to override prices")
			}
			item.PriceOverridden = true
			item.PriceOverrideBy = &input.ActorID
			item.PriceOverrideReason = &reason
		}

		return s.orderRepo.AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	if item.PriceOverridden {
		s.logger.InfoContext(ctx, "price overridden",
			slog.String("order_item_id", item.ID.String()),
			slog.String("listed_price", item.ListedPrice.String()),
			slog.String("final_price", item.FinalPrice.String()),
			slog.String("override_by", input.ActorID.String()),
		)
	}
	return item, nil
}

// RecalculateTotals recomputes subtotal and total from the stored lines.
// Running it twice yields the same totals.
func (s *SalesService) RecalculateTotals(ctx context.Context, receiptID uuid.UUID) (*entity.Receipt, error) {
	var receipt *entity.Receipt
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.receiptRepo.LockByID(ctx, receiptID)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		return s.applyTotals(ctx, receipt, receipt.Discount, nil)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// SetDiscount changes the discount of an open receipt and recomputes its total
func (s *SalesService) SetDiscount(ctx context.Context, receiptID uuid.UUID, discount decimal.Decimal, actorID uuid.UUID) (*entity.Receipt, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if err := money.ValidateNonNegativeAmount("discount", discount); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var receipt *entity.Receipt
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.lockEditable(ctx, receiptID)
		if err != nil {
			return err
		}
		return s.applyTotals(ctx, receipt, discount, nil)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// applyTotals folds the line totals of all orders, writes subtotal, discount
// and total, and merges extra columns into the same update.
func (s *SalesService) applyTotals(ctx context.Context, receipt *entity.Receipt, discount decimal.Decimal, extra map[string]interface{}) error {
	orders, err := s.orderRepo.ListByReceipt(ctx, receipt.ID)
	if err != nil {
		return err
	}

	subtotal, total, err := computeTotals(orders, discount)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"subtotal": subtotal,
		"discount": discount,
		"total":    total,
	}
	for k, v := range extra {
		fields[k] = v
	}
	if err := s.receiptRepo.UpdateFields(ctx, receipt.ID, fields); err != nil {
		return err
	}

	receipt.Subtotal = subtotal
	receipt.Discount = discount
	receipt.Total = total
	receipt.Orders = orders
	return nil
}

func computeTotals(orders []entity.Order, discount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	subtotal := decimal.Zero
	for _, order := range orders {
		for _, item := range order.Items {
			subtotal = subtotal.Add(item.LineTotal)
		}
	}
	subtotal = money.RoundMoney(subtotal)

	total := money.RoundMoney(subtotal.Sub(discount))
	if total.IsNegative() {
		return decimal.Zero, decimal.Zero, apperror.Validation("discount cannot exceed the receipt subtotal")
	}
	return subtotal, total, nil
}

// lockEditable locks a receipt that still accepts orders, lines and discounts
func (s *SalesService) lockEditable(ctx context.Context, receiptID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.LockByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.Status != enum.ReceiptStatusOpen {
		return nil, apperror.Validation(fmt.Sprintf("receipt is %s and can no longer be changed", receipt.Status))
	}
	if receipt.IsFinalized() {
		return nil, apperror.Validation("receipt has been finalized and can no longer be changed")
	}
	return receipt, nil
}
