package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/shopspring/decimal"
)

// DeductionResult is the outcome of one advisory stock deduction. A failed
// deduction does not fail the sale.
type DeductionResult struct {
	Committed bool
	Err       error
}

// ItemDeduction reports what finalization did for one sold line
type ItemDeduction struct {
	OrderItemID uuid.UUID       `json:"order_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Attempted   bool            `json:"attempted"`
	Deducted    bool            `json:"deducted"`
	Notes       string          `json:"notes"`
}

// FinalizeReceiptInput represents the finalize input
type FinalizeReceiptInput struct {
	ReceiptID uuid.UUID
	ActorID   uuid.UUID
	EmitStock bool
}

// FinalizeResult carries the finalized receipt and the per-line stock outcome
type FinalizeResult struct {
	Receipt *entity.Receipt `json:"receipt"`
	Items   []ItemDeduction `json:"items"`
}

const (
	noteDeducted        = "Deducted from inventory"
	noteEmitDisabled    = "Stock emission disabled for this receipt"
	noteNoAutoDeduct    = "Product is not set to deduct on sale"
	noteProductNotFound = "Product not found"
)

// FinalizeReceipt computes the receipt totals and emits its stock effects in
// one transaction. Each line gets an advisory SALE deduction when the product
// deducts on sale; caller-fixable failures such as insufficient stock are
// recorded on the line's POS audit row and the sale goes through. Any other
// failure rolls back the whole finalization.
func (s *SalesService) FinalizeReceipt(ctx context.Context, input *FinalizeReceiptInput) (*FinalizeResult, error) {
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}

	result := &FinalizeResult{}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		result.Items = result.Items[:0]

		receipt, err := s.receiptRepo.LockByID(ctx, input.ReceiptID)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		if receipt.IsFinalized() {
			return apperror.Validation("receipt has already been finalized")
		}
		if receipt.Status != enum.ReceiptStatusOpen {
			return apperror.Validation(fmt.Sprintf("receipt is %s and cannot be finalized", receipt.Status))
		}

		orders, err := s.orderRepo.ListByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}
		items := collectItems(orders)
		if len(orders) == 0 || len(items) == 0 {
			return apperror.Validation("a receipt cannot exist without orders")
		}

		products, err := s.productsFor(ctx, items)
		if err != nil {
			return err
		}

		for _, item := range items {
			outcome, err := s.emitLine(ctx, receipt, item, products[item.ProductID], input)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, outcome)
		}

		if err := s.orderRepo.MarkSavedByReceipt(ctx, receipt.ID); err != nil {
			return err
		}

		now := time.Now()
		if err := s.applyTotals(ctx, receipt, receipt.Discount, map[string]interface{}{
			"finalized_at": now,
			"finalized_by": input.ActorID,
		}); err != nil {
			return err
		}
		receipt.FinalizedAt = &now
		receipt.FinalizedBy = &input.ActorID
		result.Receipt = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "receipt finalized",
		slog.String("receipt_id", result.Receipt.ID.String()),
		slog.String("total", result.Receipt.Total.String()),
		slog.Int("lines", len(result.Items)),
	)
	return result, nil
}

// emitLine attempts the line's deduction and writes its audit row
func (s *SalesService) emitLine(ctx context.Context, receipt *entity.Receipt, item entity.OrderItem, product *entity.Product, input *FinalizeReceiptInput) (ItemDeduction, error) {
	outcome := ItemDeduction{
		OrderItemID: item.ID,
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
	}

	switch {
	case !input.EmitStock:
		outcome.Notes = noteEmitDisabled
	case product == nil:
		outcome.Notes = noteProductNotFound
	case !product.AutoDeductOnSale:
		outcome.Notes = noteNoAutoDeduct
	default:
		outcome.Attempted = true
		res := s.deduct(ctx, receipt, item, input.ActorID)
		if res.Err != nil && !apperror.IsValidation(res.Err) {
			return outcome, res.Err
		}
		outcome.Deducted = res.Committed
		if res.Committed {
			outcome.Notes = noteDeducted
		} else {
			outcome.Notes = fmt.Sprintf("Inventory deduction failed: %s", res.Err.Error())
			s.logger.WarnContext(ctx, "stock deduction skipped",
				slog.String("receipt_id", receipt.ID.String()),
				slog.String("order_item_id", item.ID.String()),
				slog.String("error", res.Err.Error()),
			)
		}
	}

	audit := &entity.POSStockMovement{
		ReceiptID:             receipt.ID,
		OrderItemID:           item.ID,
		ProductID:             item.ProductID,
		Quantity:              item.Quantity,
		DeductedFromInventory: outcome.Deducted,
		Notes:                 outcome.Notes,
		PerformedBy:           input.ActorID,
	}
	if err := s.movementRepo.CreateAudit(ctx, audit); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (s *SalesService) deduct(ctx context.Context, receipt *entity.Receipt, item entity.OrderItem, actorID uuid.UUID) DeductionResult {
	groupID := receipt.ID.String()
	notes := fmt.Sprintf("POS sale %s", receipt.ReceiptNumber)
	receiptID := receipt.ID
	itemID := item.ID

	_, err := s.stock.RemoveStock(ctx, &StockMovementInput{
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		Reason:      enum.MovementReasonSale,
		ActorID:     actorID,
		GroupID:     &groupID,
		ReceiptID:   &receiptID,
		OrderItemID: &itemID,
		Notes:       &notes,
	})
	if err != nil {
		return DeductionResult{Err: err}
	}
	return DeductionResult{Committed: true}
}

func (s *SalesService) productsFor(ctx context.Context, items []entity.OrderItem) (map[uuid.UUID]*entity.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	// Batch fetch all products in one query (prevents N+1)
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func collectItems(orders []entity.Order) []entity.OrderItem {
	var items []entity.OrderItem
	for _, order := range orders {
		items = append(items, order.Items...)
	}
	return items
}
