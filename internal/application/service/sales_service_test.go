package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/infrastructure/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/sangkips/retail-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPriceLookup is a testify mock of the price collaborator
type MockPriceLookup struct {
	mock.Mock
}

var _ service.PriceLookup = (*MockPriceLookup)(nil)

func (m *MockPriceLookup) CurrentSellingPrice(ctx context.Context, productID uuid.UUID) (uuid.UUID, decimal.Decimal, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(uuid.UUID), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (s *ledgerSuite) finalize(receipt *entity.Receipt, emit bool) (*service.FinalizeResult, error) {
	return s.sales.FinalizeReceipt(s.ctx(), &service.FinalizeReceiptInput{
		ReceiptID: receipt.ID,
		ActorID:   s.actor,
		EmitStock: emit,
	})
}

func (s *ledgerSuite) TestFinalizeDeductsStock() {
	product := s.newProduct("Bread", "10.00", "5", true)
	receipt := s.openReceipt()
	s.sell(receipt, product, "2", "10.00")

	result, err := s.finalize(receipt, true)
	s.Require().NoError(err)
	s.decEqual("20.00", result.Receipt.Subtotal)
	s.decEqual("20.00", result.Receipt.Total)
	s.NotNil(result.Receipt.FinalizedAt)
	s.Require().Len(result.Items, 1)
	s.True(result.Items[0].Deducted)

	s.decEqual("3", s.stockOf(product))

	stored, err := s.sales.GetReceipt(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	s.Equal("OPEN", stored.Status.String())
	s.Require().Len(stored.StockAudit, 1)
	s.True(stored.StockAudit[0].DeductedFromInventory)
	s.True(stored.Orders[0].IsSaved)

	var sale entity.StockMovement
	s.Require().NoError(s.db.Where("receipt_id = ?", receipt.ID).First(&sale).Error)
	s.Require().NotNil(sale.GroupID)
	s.Equal(receipt.ID.String(), *sale.GroupID)
	s.Equal(stored.Orders[0].Items[0].ID, *sale.OrderItemID)
}

func (s *ledgerSuite) TestFinalizeSucceedsWhenStockIsShort() {
	product := s.newProduct("Bread", "10.00", "1", true)
	receipt := s.openReceipt()
	s.sell(receipt, product, "2", "10.00")

	result, err := s.finalize(receipt, true)
	s.Require().NoError(err)
	s.decEqual("20.00", result.Receipt.Total)
	s.Require().Len(result.Items, 1)
	s.True(result.Items[0].Attempted)
	s.False(result.Items[0].Deducted)
	s.Contains(result.Items[0].Notes, "insufficient stock")

	s.decEqual("1", s.stockOf(product))

	audits, err := s.sales.GetReceipt(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	s.Require().Len(audits.StockAudit, 1)
	s.False(audits.StockAudit[0].DeductedFromInventory)
	s.Contains(audits.StockAudit[0].Notes, "insufficient stock")
}

func (s *ledgerSuite) TestFinalizeMixedLinesCommitIndependently() {
	plenty := s.newProduct("Soda", "1.50", "10", true)
	short := s.newProduct("Juice", "3.00", "0", true)
	manual := s.newProduct("Gift wrap", "0.50", "0", false)

	receipt := s.openReceipt()
	s.sell(receipt, plenty, "4", "1.50")
	s.sell(receipt, short, "1", "3.00")
	s.sell(receipt, manual, "1", "0.50")

	result, err := s.finalize(receipt, true)
	s.Require().NoError(err)
	s.decEqual("9.50", result.Receipt.Total)
	s.Require().Len(result.Items, 3)

	byProduct := map[uuid.UUID]service.ItemDeduction{}
	for _, item := range result.Items {
		byProduct[item.ProductID] = item
	}
	s.True(byProduct[plenty.ID].Deducted)
	s.False(byProduct[short.ID].Deducted)
	s.False(byProduct[manual.ID].Attempted)
	s.False(byProduct[manual.ID].Deducted)

	s.decEqual("6", s.stockOf(plenty))

	var audits int64
	s.Require().NoError(s.db.Model(&entity.POSStockMovement{}).Where("receipt_id = ?", receipt.ID).Count(&audits).Error)
	s.Equal(int64(3), audits)
}

func (s *ledgerSuite) TestFinalizeRollsBackEarlierLinesOnFailure() {
	first := s.newProduct("Soap", "2.00", "10", true)
	second := s.newProduct("Candles", "1.00", "10", true)

	receipt := s.openReceipt()
	s.sell(receipt, first, "2", "2.00")
	s.sell(receipt, second, "1", "1.00")

	// The second audit insert fails with a storage error finalize must not absorb
	s.Require().NoError(s.db.Exec(`CREATE TRIGGER fail_second_audit BEFORE INSERT ON pos_stock_movements
		WHEN (SELECT COUNT(*) FROM pos_stock_movements) >= 1
		BEGIN SELECT RAISE(ABORT, 'audit store unavailable'); END`).Error)

	_, err := s.finalize(receipt, true)
	s.Require().Error(err)
	s.Equal(apperror.KindInternal, apperror.KindOf(err))

	s.decEqual("10", s.stockOf(first))
	s.decEqual("10", s.stockOf(second))

	var sales, audits int64
	s.Require().NoError(s.db.Model(&entity.StockMovement{}).Where("receipt_id = ?", receipt.ID).Count(&sales).Error)
	s.Require().NoError(s.db.Model(&entity.POSStockMovement{}).Where("receipt_id = ?", receipt.ID).Count(&audits).Error)
	s.Zero(sales)
	s.Zero(audits)

	stored, err := s.sales.GetReceipt(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	s.Nil(stored.FinalizedAt)
	s.True(stored.Total.IsZero())

	s.Require().NoError(s.db.Exec("DROP TRIGGER fail_second_audit").Error)
	_, err = s.finalize(receipt, true)
	s.Require().NoError(err)
	s.decEqual("8", s.stockOf(first))
	s.decEqual("9", s.stockOf(second))
}

func (s *ledgerSuite) TestFinalizeWithoutStockEmission() {
	product := s.newProduct("Bread", "10.00", "5", true)
	receipt := s.openReceipt()
	s.sell(receipt, product, "2", "10.00")

	result, err := s.finalize(receipt, false)
	s.Require().NoError(err)
	s.False(result.Items[0].Attempted)
	s.decEqual("5", s.stockOf(product))
}

func (s *ledgerSuite) TestFinalizeTwiceIsRejected() {
	product := s.newProduct("Bread", "10.00", "5", true)
	receipt := s.openReceipt()
	s.sell(receipt, product, "2", "10.00")

	_, err := s.finalize(receipt, true)
	s.Require().NoError(err)

	_, err = s.finalize(receipt, true)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
	s.decEqual("3", s.stockOf(product))

	var audits int64
	s.Require().NoError(s.db.Model(&entity.POSStockMovement{}).Where("receipt_id = ?", receipt.ID).Count(&audits).Error)
	s.Equal(int64(1), audits)
}

func (s *ledgerSuite) TestFinalizeEmptyReceipt() {
	receipt := s.openReceipt()
	_, err := s.finalize(receipt, true)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	_, err = s.sales.CreateOrder(s.ctx(), receipt.ID, s.actor)
	s.Require().NoError(err)
	_, err = s.finalize(receipt, true)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
}

func (s *ledgerSuite) TestFinalizedReceiptRefusesChanges() {
	product := s.newProduct("Bread", "10.00", "5", true)
	receipt := s.finalizedReceipt(product, "1", "10.00")

	_, err := s.sales.CreateOrder(s.ctx(), receipt.ID, s.actor)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	_, err = s.sales.SetDiscount(s.ctx(), receipt.ID, dec("1.00"), s.actor)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	stored, err := s.sales.GetReceipt(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	_, err = s.sales.AddOrderItem(s.ctx(), &service.AddOrderItemInput{
		OrderID:    stored.Orders[0].ID,
		ProductID:  product.ID,
		Quantity:   dec("1"),
		FinalPrice: dec("10.00"),
		ActorID:    s.actor,
	})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
}

func (s *ledgerSuite) TestMergedOrdersAndDiscount() {
	bread := s.newProduct("Bread", "10.00", "50", true)
	milk := s.newProduct("Milk", "1.25", "50", true)
	receipt := s.openReceipt()
	s.sell(receipt, bread, "3", "10.00")
	s.sell(receipt, milk, "1.5", "1.25")

	updated, err := s.sales.SetDiscount(s.ctx(), receipt.ID, dec("5.00"), s.actor)
	s.Require().NoError(err)
	s.decEqual("31.88", updated.Subtotal)
	s.decEqual("26.88", updated.Total)

	_, err = s.sales.SetDiscount(s.ctx(), receipt.ID, dec("40.00"), s.actor)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	first, err := s.sales.RecalculateTotals(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	second, err := s.sales.RecalculateTotals(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	s.True(first.Total.Equal(second.Total))
	s.decEqual("26.88", second.Total)
	s.decEqual("5.00", second.Discount)
}

func (s *ledgerSuite) TestPriceOverrideRules() {
	product := s.newProduct("Cake", "12.00", "5", true)
	receipt := s.openReceipt()
	order, err := s.sales.CreateOrder(s.ctx(), receipt.ID, s.actor)
	s.Require().NoError(err)

	input := service.AddOrderItemInput{
		OrderID:    order.ID,
		ProductID:  product.ID,
		Quantity:   dec("1"),
		FinalPrice: dec("10.00"),
		ActorID:    s.actor,
	}

	// No reason
	_, err = s.sales.AddOrderItem(s.ctx(service.CapabilityOverridePrice), &input)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	// Reason but no capability
	input.OverrideReason = "damaged packaging"
	_, err = s.sales.AddOrderItem(s.ctx(), &input)
	s.Equal(apperror.KindForbidden, apperror.KindOf(err))

	item, err := s.sales.AddOrderItem(s.ctx(service.CapabilityOverridePrice), &input)
	s.Require().NoError(err)
	s.True(item.PriceOverridden)
	s.decEqual("12.00", item.ListedPrice)
	s.decEqual("10.00", item.FinalPrice)
	s.Require().NotNil(item.PriceOverrideBy)
	s.Equal(s.actor, *item.PriceOverrideBy)
	s.Equal("damaged packaging", *item.PriceOverrideReason)

	// Listed price needs neither
	plain, err := s.sales.AddOrderItem(s.ctx(), &service.AddOrderItemInput{
		OrderID:    order.ID,
		ProductID:  product.ID,
		Quantity:   dec("1"),
		FinalPrice: dec("12.00"),
		ActorID:    s.actor,
	})
	s.Require().NoError(err)
	s.False(plain.PriceOverridden)
	s.Nil(plain.PriceOverrideBy)
}

func (s *ledgerSuite) TestPriceChangeDoesNotRewriteHistory() {
	product := s.newProduct("Coffee", "8.00", "10", true)
	receipt := s.openReceipt()
	s.sell(receipt, product, "2", "8.00")

	_, err := s.prices.SetSellingPrice(s.ctx(), product.ID, dec("9.50"))
	s.Require().NoError(err)

	result, err := s.finalize(receipt, true)
	s.Require().NoError(err)
	s.decEqual("16.00", result.Receipt.Total)

	stored, err := s.sales.GetReceipt(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	line := stored.Orders[0].Items[0]
	s.decEqual("8.00", line.ListedPrice)
	s.decEqual("16.00", line.LineTotal)

	_, listed, err := s.prices.CurrentSellingPrice(s.ctx(), product.ID)
	s.Require().NoError(err)
	s.decEqual("9.50", listed)
}

func (s *ledgerSuite) TestReceiptNumbers() {
	s.openReceipt()

	custom, err := s.sales.CreateReceipt(s.ctx(), &service.CreateReceiptInput{
		SessionID:     s.session.ID,
		ActorID:       s.actor,
		ReceiptNumber: "R-0001",
	})
	s.Require().NoError(err)
	s.Equal("R-0001", custom.ReceiptNumber)

	_, err = s.sales.CreateReceipt(s.ctx(), &service.CreateReceiptInput{
		SessionID:     s.session.ID,
		ActorID:       s.actor,
		ReceiptNumber: "R-0001",
	})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	generated, err := s.sales.CreateReceipt(s.ctx(), &service.CreateReceiptInput{SessionID: s.session.ID, ActorID: s.actor})
	s.Require().NoError(err)
	s.Regexp(`^RCP-[0-9A-F]{8}$`, generated.ReceiptNumber)

	receipts, page, err := s.sales.ListReceiptsBySession(s.ctx(), s.session.ID, nil)
	s.Require().NoError(err)
	s.Len(receipts, 3)
	s.Equal(int64(3), page.Total)
}

func (s *ledgerSuite) TestAddOrderItemValidation() {
	product := s.newProduct("Cake", "12.00", "5", true)
	receipt := s.openReceipt()
	order, err := s.sales.CreateOrder(s.ctx(), receipt.ID, s.actor)
	s.Require().NoError(err)

	for _, qty := range []string{"0", "-1", "0.0001"} {
		_, err := s.sales.AddOrderItem(s.ctx(), &service.AddOrderItemInput{
			OrderID:    order.ID,
			ProductID:  product.ID,
			Quantity:   dec(qty),
			FinalPrice: dec("12.00"),
			ActorID:    s.actor,
		})
		s.Equal(apperror.KindValidation, apperror.KindOf(err), qty)
	}

	_, err = s.sales.AddOrderItem(s.ctx(), &service.AddOrderItemInput{
		OrderID:    uuid.New(),
		ProductID:  product.ID,
		Quantity:   dec("1"),
		FinalPrice: dec("12.00"),
		ActorID:    s.actor,
	})
	s.Equal(apperror.KindNotFound, apperror.KindOf(err))

	unpriced, err := s.stock.CreateProduct(s.ctx(), &service.CreateProductInput{Name: "Unpriced", ActorID: s.actor})
	s.Require().NoError(err)
	_, err = s.sales.AddOrderItem(s.ctx(), &service.AddOrderItemInput{
		OrderID:    order.ID,
		ProductID:  unpriced.ID,
		Quantity:   dec("1"),
		FinalPrice: dec("1.00"),
		ActorID:    s.actor,
	})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
}

func (s *ledgerSuite) TestPriceLookupFailureAbortsLine() {
	product := s.newProduct("Cake", "12.00", "5", true)
	receipt := s.openReceipt()
	order, err := s.sales.CreateOrder(s.ctx(), receipt.ID, s.actor)
	s.Require().NoError(err)

	lookup := new(MockPriceLookup)
	lookup.On("CurrentSellingPrice", mock.Anything, product.ID).
		Return(uuid.Nil, decimal.Zero, errors.New("price service unavailable"))

	log := logger.Discard()
	txManager := repository.NewTxManager(s.db, repository.TxOptions{MaxAttempts: 1}, log)
	productRepo := repository.NewProductRepository(s.db)
	movementRepo := repository.NewStockMovementRepository(s.db)
	sales := service.NewSalesService(txManager,
		repository.NewSessionRepository(s.db),
		repository.NewReceiptRepository(s.db),
		repository.NewOrderRepository(s.db),
		productRepo, movementRepo,
		s.stock, lookup, service.NewPermissionAuthorizer(), log)

	_, err = sales.AddOrderItem(s.ctx(), &service.AddOrderItemInput{
		OrderID:    order.ID,
		ProductID:  product.ID,
		Quantity:   dec("1"),
		FinalPrice: dec("12.00"),
		ActorID:    s.actor,
	})
	s.Equal(apperror.KindInternal, apperror.KindOf(err))
	lookup.AssertExpectations(s.T())

	var items int64
	s.Require().NoError(s.db.Model(&entity.OrderItem{}).Count(&items).Error)
	s.Zero(items)
}
