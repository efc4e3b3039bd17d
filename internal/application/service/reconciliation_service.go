package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/sangkips/retail-ledger/pkg/money"
	"github.com/sangkips/retail-ledger/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ReconciliationService turns physical counts into ledger corrections
type ReconciliationService struct {
	txManager          repository.TxManager
	reconciliationRepo repository.ReconciliationRepository
	productRepo        repository.ProductRepository
	stock              *StockService
	logger             *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	txManager repository.TxManager,
	reconciliationRepo repository.ReconciliationRepository,
	productRepo repository.ProductRepository,
	stock *StockService,
	logger *slog.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		txManager:          txManager,
		reconciliationRepo: reconciliationRepo,
		productRepo:        productRepo,
		stock:              stock,
		logger:             logger,
	}
}

// CreateReconciliationInput represents a physical count
type CreateReconciliationInput struct {
	ProductID       uuid.UUID
	CountedQuantity decimal.Decimal
	ActorID         uuid.UUID
	Notes           *string
}

// CreateReconciliation snapshots the system level next to the counted one.
// Nothing touches the ledger until the count is approved.
func (s *ReconciliationService) CreateReconciliation(ctx context.Context, input *CreateReconciliationInput) (*entity.StockReconciliation, error) {
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if err := money.ValidateNonNegativeQuantity("counted_quantity", input.CountedQuantity); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var reconciliation *entity.StockReconciliation
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.LockByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		system, err := s.stock.stockLevel(ctx, product.ID)
		if err != nil {
			return err
		}

		reconciliation = &entity.StockReconciliation{
			ProductID:       product.ID,
			CountedQuantity: input.CountedQuantity,
			SystemQuantity:  system,
			Difference:      input.CountedQuantity.Sub(system),
			Status:          enum.ReconciliationStatusPending,
			Notes:           input.Notes,
			CountedBy:       input.ActorID,
		}
		return s.reconciliationRepo.Create(ctx, reconciliation)
	})
	if err != nil {
		return nil, err
	}
	return reconciliation, nil
}

// ApproveReconciliation applies the count. A non-zero difference becomes
// exactly one ADJUSTMENT movement; a shrinkage that would drive stock
// negative fails and leaves the count pending.
func (s *ReconciliationService) ApproveReconciliation(ctx context.Context, id, actorID uuid.UUID) (*entity.StockReconciliation, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}

	var reconciliation *entity.StockReconciliation
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		reconciliation, err = s.lockPending(ctx, id)
		if err != nil {
			return err
		}

		now := time.Now()
		fields := map[string]interface{}{
			"status":      enum.ReconciliationStatusApproved,
			"approved_by": actorID,
			"approved_at": now,
		}

		if !reconciliation.Difference.IsZero() {
			movement, err := s.applyDifference(ctx, reconciliation, actorID)
			if err != nil {
				return err
			}
			fields["adjustment_movement_id"] = movement.ID
			reconciliation.AdjustmentMovementID = &movement.ID
		}

		if err := s.reconciliationRepo.UpdateFields(ctx, reconciliation.ID, fields); err != nil {
			return err
		}
		reconciliation.Status = enum.ReconciliationStatusApproved
		reconciliation.ApprovedBy = &actorID
		reconciliation.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "reconciliation approved",
		slog.String("reconciliation_id", reconciliation.ID.String()),
		slog.String("difference", reconciliation.Difference.String()),
	)
	return reconciliation, nil
}

func (s *ReconciliationService) applyDifference(ctx context.Context, r *entity.StockReconciliation, actorID uuid.UUID) (*entity.StockMovement, error) {
	funded := false
	groupID := r.GroupID()
	notes := fmt.Sprintf("Stock count: counted %s, system %s", r.CountedQuantity.String(), r.SystemQuantity.String())

	input := &StockMovementInput{
		ProductID:        r.ProductID,
		Quantity:         r.Difference.Abs(),
		Reason:           enum.MovementReasonAdjustment,
		ActorID:          actorID,
		FundedByBusiness: &funded,
		GroupID:          &groupID,
		Notes:            &notes,
	}
	if r.Difference.IsPositive() {
		return s.stock.AddStock(ctx, input)
	}
	return s.stock.RemoveStock(ctx, input)
}

// RejectReconciliation closes the count without touching the ledger
func (s *ReconciliationService) RejectReconciliation(ctx context.Context, id, actorID uuid.UUID, notes *string) (*entity.StockReconciliation, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}

	var reconciliation *entity.StockReconciliation
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		reconciliation, err = s.lockPending(ctx, id)
		if err != nil {
			return err
		}

		now := time.Now()
		fields := map[string]interface{}{
			"status":      enum.ReconciliationStatusRejected,
			"rejected_by": actorID,
			"rejected_at": now,
		}
		if notes != nil {
			fields["notes"] = *notes
			reconciliation.Notes = notes
		}
		if err := s.reconciliationRepo.UpdateFields(ctx, reconciliation.ID, fields); err != nil {
			return err
		}
		reconciliation.Status = enum.ReconciliationStatusRejected
		reconciliation.RejectedBy = &actorID
		reconciliation.RejectedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reconciliation, nil
}

func (s *ReconciliationService) lockPending(ctx context.Context, id uuid.UUID) (*entity.StockReconciliation, error) {
	reconciliation, err := s.reconciliationRepo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reconciliation == nil {
		return nil, apperror.NewNotFoundError("Reconciliation")
	}
	if reconciliation.Status != enum.ReconciliationStatusPending {
		return nil, apperror.Validation(fmt.Sprintf("reconciliation is already %s", reconciliation.Status))
	}
	return reconciliation, nil
}

// ListPendingReconciliations returns counts awaiting a decision, oldest first
func (s *ReconciliationService) ListPendingReconciliations(ctx context.Context, params *pagination.Params) ([]entity.StockReconciliation, *pagination.Page, error) {
	if params == nil {
		params = pagination.DefaultParams()
	}
	items, total, err := s.reconciliationRepo.ListPending(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	return items, pagination.NewPage(params, total), nil
}
