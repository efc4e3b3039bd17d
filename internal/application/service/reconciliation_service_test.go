package service_test

import (
	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/sangkips/retail-ledger/pkg/apperror"
)

func (s *ledgerSuite) count(product *entity.Product, counted string) *entity.StockReconciliation {
	s.T().Helper()
	r, err := s.reconciliation.CreateReconciliation(s.ctx(), &service.CreateReconciliationInput{
		ProductID:       product.ID,
		CountedQuantity: dec(counted),
		ActorID:         s.actor,
	})
	s.Require().NoError(err)
	return r
}

func (s *ledgerSuite) TestApproveShrinkageEmitsOneOutAdjustment() {
	product := s.newProduct("Beans", "2.00", "50", true)
	r := s.count(product, "48")
	s.decEqual("50", r.SystemQuantity)
	s.decEqual("-2", r.Difference)
	s.Equal(enum.ReconciliationStatusPending, r.Status)

	approved, err := s.reconciliation.ApproveReconciliation(s.ctx(), r.ID, s.actor)
	s.Require().NoError(err)
	s.Equal(enum.ReconciliationStatusApproved, approved.Status)
	s.Require().NotNil(approved.AdjustmentMovementID)

	var adjustments []entity.StockMovement
	s.Require().NoError(s.db.Where("group_id = ?", r.GroupID()).Find(&adjustments).Error)
	s.Require().Len(adjustments, 1)
	s.Equal(enum.MovementTypeOut, adjustments[0].MovementType)
	s.Equal(enum.MovementReasonAdjustment, adjustments[0].Reason)
	s.decEqual("2", adjustments[0].Quantity)
	s.False(adjustments[0].FundedByBusiness)
	s.Equal(*approved.AdjustmentMovementID, adjustments[0].ID)

	s.decEqual("48", s.stockOf(product))
}

func (s *ledgerSuite) TestApproveSurplusEmitsInAdjustment() {
	product := s.newProduct("Lentils", "2.00", "10", true)
	r := s.count(product, "12.5")

	_, err := s.reconciliation.ApproveReconciliation(s.ctx(), r.ID, s.actor)
	s.Require().NoError(err)
	s.decEqual("12.5", s.stockOf(product))
}

func (s *ledgerSuite) TestApproveZeroDifferenceEmitsNothing() {
	product := s.newProduct("Maize", "1.00", "7", true)
	r := s.count(product, "7")

	approved, err := s.reconciliation.ApproveReconciliation(s.ctx(), r.ID, s.actor)
	s.Require().NoError(err)
	s.Nil(approved.AdjustmentMovementID)
	s.Equal(int64(1), s.countMovements(product.ID))
}

func (s *ledgerSuite) TestRejectLeavesLedgerUntouched() {
	product := s.newProduct("Peas", "2.00", "50", true)
	r := s.count(product, "48")
	notes := "recount requested"

	rejected, err := s.reconciliation.RejectReconciliation(s.ctx(), r.ID, s.actor, &notes)
	s.Require().NoError(err)
	s.Equal(enum.ReconciliationStatusRejected, rejected.Status)
	s.Equal(int64(1), s.countMovements(product.ID))
	s.decEqual("50", s.stockOf(product))

	// A resolved count cannot be decided again
	_, err = s.reconciliation.ApproveReconciliation(s.ctx(), r.ID, s.actor)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
}

func (s *ledgerSuite) TestApproveTwiceIsRejected() {
	product := s.newProduct("Millet", "2.00", "5", true)
	r := s.count(product, "4")

	_, err := s.reconciliation.ApproveReconciliation(s.ctx(), r.ID, s.actor)
	s.Require().NoError(err)
	_, err = s.reconciliation.ApproveReconciliation(s.ctx(), r.ID, s.actor)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
	s.decEqual("4", s.stockOf(product))
}

func (s *ledgerSuite) TestApproveStaleShrinkageKeepsCountPending() {
	product := s.newProduct("Cocoa", "9.00", "5", true)
	r := s.count(product, "1")

	// Stock sold after the count was taken
	_, err := s.stock.RemoveStock(s.ctx(), &service.StockMovementInput{
		ProductID: product.ID,
		Quantity:  dec("3"),
		Reason:    enum.MovementReasonSale,
		ActorID:   s.actor,
	})
	s.Require().NoError(err)

	_, err = s.reconciliation.ApproveReconciliation(s.ctx(), r.ID, s.actor)
	s.Equal(apperror.KindInsufficientStock, apperror.KindOf(err))

	pending, page, err := s.reconciliation.ListPendingReconciliations(s.ctx(), nil)
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)
	s.Equal(r.ID, pending[0].ID)
}

func (s *ledgerSuite) TestReconciliationNotFoundAndValidation() {
	_, err := s.reconciliation.ApproveReconciliation(s.ctx(), uuid.New(), s.actor)
	s.Equal(apperror.KindNotFound, apperror.KindOf(err))

	product := s.newProduct("Honey", "9.00", "1", true)
	_, err = s.reconciliation.CreateReconciliation(s.ctx(), &service.CreateReconciliationInput{
		ProductID:       product.ID,
		CountedQuantity: dec("-1"),
		ActorID:         s.actor,
	})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
}
