package service_test

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/sangkips/retail-ledger/pkg/pagination"
)

func (s *ledgerSuite) TestCurrentStockFoldsMovements() {
	product := s.newProduct("Flour", "2.50", "10.5", true)

	_, err := s.stock.RemoveStock(s.ctx(), &service.StockMovementInput{
		ProductID: product.ID,
		Quantity:  dec("0.25"),
		Reason:    enum.MovementReasonCooking,
		ActorID:   s.actor,
	})
	s.Require().NoError(err)

	s.decEqual("10.25", s.stockOf(product))

	fetched, err := s.stock.GetProduct(s.ctx(), product.ID)
	s.Require().NoError(err)
	s.decEqual("10.25", fetched.CurrentStock)
}

func (s *ledgerSuite) TestAddStockValidation() {
	product := s.newProduct("Sugar", "1.00", "0", true)
	expense := uuid.New()

	tests := []struct {
		name  string
		input service.StockMovementInput
	}{
		{
			name:  "zero quantity",
			input: service.StockMovementInput{ProductID: product.ID, Quantity: dec("0"), Reason: enum.MovementReasonReturn, ActorID: s.actor},
		},
		{
			name:  "too many decimal places",
			input: service.StockMovementInput{ProductID: product.ID, Quantity: dec("1.0001"), Reason: enum.MovementReasonReturn, ActorID: s.actor},
		},
		{
			name:  "missing actor",
			input: service.StockMovementInput{ProductID: product.ID, Quantity: dec("1"), Reason: enum.MovementReasonReturn},
		},
		{
			name:  "OUT reason on IN movement",
			input: service.StockMovementInput{ProductID: product.ID, Quantity: dec("1"), Reason: enum.MovementReasonSale, ActorID: s.actor, ExpenseItemID: &expense},
		},
		{
			name:  "business-funded purchase without expense",
			input: service.StockMovementInput{ProductID: product.ID, Quantity: dec("1"), Reason: enum.MovementReasonPurchase, ActorID: s.actor},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			input := tt.input
			_, err := s.stock.AddStock(s.ctx(), &input)
			s.Require().Error(err)
			s.Equal(apperror.KindValidation, apperror.KindOf(err))
		})
	}
	s.Zero(s.countMovements(product.ID))
}

func (s *ledgerSuite) TestAddStockPurchaseNotFundedByBusinessNeedsNoExpense() {
	product := s.newProduct("Eggs", "0.30", "0", true)
	funded := false

	movement, err := s.stock.AddStock(s.ctx(), &service.StockMovementInput{
		ProductID:        product.ID,
		Quantity:         dec("30"),
		Reason:           enum.MovementReasonPurchase,
		ActorID:          s.actor,
		FundedByBusiness: &funded,
	})
	s.Require().NoError(err)
	s.False(movement.FundedByBusiness)
	s.Equal(enum.MovementTypeIn, movement.MovementType)
	s.decEqual("30", s.stockOf(product))
}

func (s *ledgerSuite) TestAddStockUnknownProduct() {
	_, err := s.stock.AddStock(s.ctx(), &service.StockMovementInput{
		ProductID: uuid.New(),
		Quantity:  dec("1"),
		Reason:    enum.MovementReasonReturn,
		ActorID:   s.actor,
	})
	s.Equal(apperror.KindNotFound, apperror.KindOf(err))
}

func (s *ledgerSuite) TestRemoveStockRejectsNegativeStock() {
	product := s.newProduct("Rice", "3.00", "2", true)

	_, err := s.stock.RemoveStock(s.ctx(), &service.StockMovementInput{
		ProductID: product.ID,
		Quantity:  dec("2.001"),
		Reason:    enum.MovementReasonDamaged,
		ActorID:   s.actor,
	})
	s.Require().Error(err)
	s.Equal(apperror.KindInsufficientStock, apperror.KindOf(err))
	s.True(apperror.IsValidation(err))
	s.decEqual("2", s.stockOf(product))
	s.Equal(int64(1), s.countMovements(product.ID))

	// Spending exactly what is there is allowed
	_, err = s.stock.RemoveStock(s.ctx(), &service.StockMovementInput{
		ProductID: product.ID,
		Quantity:  dec("2"),
		Reason:    enum.MovementReasonLost,
		ActorID:   s.actor,
	})
	s.Require().NoError(err)
	s.True(s.stockOf(product).IsZero())
}

func (s *ledgerSuite) TestRemoveStockRejectsInReason() {
	product := s.newProduct("Oil", "5.00", "5", true)

	_, err := s.stock.RemoveStock(s.ctx(), &service.StockMovementInput{
		ProductID: product.ID,
		Quantity:  dec("1"),
		Reason:    enum.MovementReasonPurchase,
		ActorID:   s.actor,
	})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
}

func (s *ledgerSuite) TestConcurrentRemovalsCannotOversell() {
	product := s.newProduct("Milk", "1.20", "5", true)

	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.stock.RemoveStock(s.ctx(), &service.StockMovementInput{
				ProductID: product.ID,
				Quantity:  dec("3"),
				Reason:    enum.MovementReasonSale,
				ActorID:   s.actor,
			})
		}(i)
	}
	wg.Wait()

	succeeded, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperror.KindOf(err) == apperror.KindInsufficientStock:
			insufficient++
		}
	}
	s.Equal(1, succeeded)
	s.Equal(1, insufficient)
	s.decEqual("2", s.stockOf(product))
}

func (s *ledgerSuite) TestListMovementsByGroup() {
	product := s.newProduct("Tea", "4.00", "10", true)
	group := "RESTOCK-1"

	for i := 0; i < 3; i++ {
		_, err := s.stock.AddStock(s.ctx(), &service.StockMovementInput{
			ProductID: product.ID,
			Quantity:  dec("1"),
			Reason:    enum.MovementReasonReturn,
			ActorID:   s.actor,
			GroupID:   &group,
		})
		s.Require().NoError(err)
	}

	movements, page, err := s.stock.ListMovements(s.ctx(), &domainRepo.MovementFilterParams{
		Pagination: &pagination.Params{Page: 1, PerPage: 2},
		GroupID:    group,
	})
	s.Require().NoError(err)
	s.Len(movements, 2)
	s.Equal(int64(3), page.Total)
	s.True(page.HasNext)

	all, page, err := s.stock.ListMovements(s.ctx(), &domainRepo.MovementFilterParams{ProductID: &product.ID})
	s.Require().NoError(err)
	s.Len(all, 4)
	s.Equal(int64(4), page.Total)
}

func (s *ledgerSuite) TestCreateProductDefaults() {
	product, err := s.stock.CreateProduct(s.ctx(), &service.CreateProductInput{Name: "  Salt ", ActorID: s.actor})
	s.Require().NoError(err)
	s.Equal("Salt", product.Name)
	s.Equal("kg", product.Unit)
	s.True(product.AutoDeductOnSale)

	_, err = s.stock.CreateProduct(s.ctx(), &service.CreateProductInput{Name: " ", ActorID: s.actor})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
}
