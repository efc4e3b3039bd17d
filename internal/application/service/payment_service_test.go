package service_test

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/sangkips/retail-ledger/pkg/apperror"
)

func (s *ledgerSuite) pay(receiptID uuid.UUID, amount string, method enum.PaymentMethod, perms ...string) (*service.PaymentResult, error) {
	return s.payments.AcceptPayment(s.ctx(perms...), &service.AcceptPaymentInput{
		ReceiptID: receiptID,
		Amount:    dec(amount),
		Method:    method,
		ActorID:   s.actor,
	})
}

func (s *ledgerSuite) creditInput(receiptID uuid.UUID) *service.CreateCreditInput {
	return &service.CreateCreditInput{
		ReceiptID:     receiptID,
		CustomerName:  "Wanjiku",
		CustomerPhone: "+254700000000",
		DueDate:       time.Now().AddDate(0, 0, 14),
		ActorID:       s.actor,
	}
}

func (s *ledgerSuite) TestPartialPaymentsSettleReceipt() {
	product := s.newProduct("Rice", "50.00", "10", true)
	receipt := s.finalizedReceipt(product, "2", "50.00")

	first, err := s.pay(receipt.ID, "40.00", enum.PaymentMethodCash)
	s.Require().NoError(err)
	s.Equal(enum.ReceiptStatusOpen, first.Status)
	s.decEqual("60.00", first.Balance.Balance)

	_, err = s.pay(receipt.ID, "70.00", enum.PaymentMethodCard)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	second, err := s.pay(receipt.ID, "60.00", enum.PaymentMethodMpesa)
	s.Require().NoError(err)
	s.Equal(enum.ReceiptStatusPaid, second.Status)
	s.decEqual("0", second.Balance.Balance)

	balance, err := s.payments.ReceiptBalance(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	s.decEqual("100.00", balance.Total)
	s.decEqual("100.00", balance.Paid)

	// Paid receipts take no further tenders; without the capability the
	// balance check answers first
	_, err = s.pay(receipt.ID, "1.00", enum.PaymentMethodCash)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
	s.EqualError(err, "payment exceeds remaining balance")

	_, err = s.pay(receipt.ID, "1.00", enum.PaymentMethodCash, service.CapabilityOverPayment)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
	s.EqualError(err, "payments can only be accepted on an open receipt")

	var payments int64
	s.Require().NoError(s.db.Model(&entity.Payment{}).Where("receipt_id = ?", receipt.ID).Count(&payments).Error)
	s.Equal(int64(2), payments)
}

func (s *ledgerSuite) TestOverpaymentNeedsCapability() {
	product := s.newProduct("Rice", "50.00", "10", true)
	receipt := s.finalizedReceipt(product, "2", "50.00")

	_, err := s.pay(receipt.ID, "120.00", enum.PaymentMethodCash)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	result, err := s.pay(receipt.ID, "120.00", enum.PaymentMethodCash, service.CapabilityOverPayment)
	s.Require().NoError(err)
	s.Equal(enum.ReceiptStatusPaid, result.Status)
	s.decEqual("-20.00", result.Balance.Balance)
}

func (s *ledgerSuite) TestPaymentValidation() {
	product := s.newProduct("Rice", "50.00", "10", true)
	receipt := s.finalizedReceipt(product, "1", "50.00")

	tests := []struct {
		name   string
		amount string
		method enum.PaymentMethod
	}{
		{name: "zero amount", amount: "0", method: enum.PaymentMethodCash},
		{name: "negative amount", amount: "-5", method: enum.PaymentMethodCash},
		{name: "sub-cent amount", amount: "1.005", method: enum.PaymentMethodCash},
		{name: "unknown method", amount: "10", method: enum.PaymentMethod("CHEQUE")},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.pay(receipt.ID, tt.amount, tt.method)
			s.Equal(apperror.KindValidation, apperror.KindOf(err))
		})
	}

	_, err := s.pay(uuid.New(), "10", enum.PaymentMethodCash)
	s.Equal(apperror.KindNotFound, apperror.KindOf(err))
}

func (s *ledgerSuite) TestConcurrentPaymentsCannotOverpay() {
	product := s.newProduct("Rice", "50.00", "10", true)
	receipt := s.finalizedReceipt(product, "2", "50.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.pay(receipt.ID, "60.00", enum.PaymentMethodCash)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.Equal(apperror.KindValidation, apperror.KindOf(err))
		}
	}
	s.Equal(1, succeeded)

	balance, err := s.payments.ReceiptBalance(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	s.decEqual("60.00", balance.Paid)
}

func (s *ledgerSuite) TestCreditThenRefund() {
	product := s.newProduct("Sugar", "25.00", "10", true)
	receipt := s.finalizedReceipt(product, "2", "25.00")
	s.decEqual("8", s.stockOf(product))

	_, err := s.payments.CreateCreditAccount(s.ctx(), s.creditInput(receipt.ID))
	s.Equal(apperror.KindForbidden, apperror.KindOf(err))

	account, err := s.payments.CreateCreditAccount(s.ctx(service.CapabilityCreateCredit), s.creditInput(receipt.ID))
	s.Require().NoError(err)
	s.decEqual("50.00", account.CreditAmount)
	s.Equal("Wanjiku", account.CustomerName)

	stored, err := s.sales.GetReceipt(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	s.Equal(enum.ReceiptStatusCredit, stored.Status)
	s.Require().NotNil(stored.CreditAccount)

	// A credit receipt takes no tenders
	_, err = s.pay(receipt.ID, "10.00", enum.PaymentMethodCash)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	_, err = s.payments.CreateCreditAccount(s.ctx(service.CapabilityCreateCredit), s.creditInput(receipt.ID))
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	refunded, err := s.payments.RefundReceipt(s.ctx(service.CapabilityRefundOrder), &service.RefundInput{
		ReceiptID: receipt.ID,
		Reason:    "customer returned goods",
		ActorID:   s.actor,
	})
	s.Require().NoError(err)
	s.Equal(enum.ReceiptStatusRefunded, refunded.Status)
	s.Equal("customer returned goods", *refunded.RefundReason)

	stored, err = s.sales.GetReceipt(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	for _, order := range stored.Orders {
		s.True(order.IsRefunded)
	}

	// Refunds never touch the stock ledger
	s.decEqual("8", s.stockOf(product))
	s.Equal(int64(2), s.countMovements(product.ID))

	_, err = s.payments.RefundReceipt(s.ctx(service.CapabilityRefundOrder), &service.RefundInput{
		ReceiptID: receipt.ID,
		Reason:    "again",
		ActorID:   s.actor,
	})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))
}

func (s *ledgerSuite) TestCreditRequiresOrdersAndFields() {
	empty := s.openReceipt()
	_, err := s.payments.CreateCreditAccount(s.ctx(service.CapabilityCreateCredit), s.creditInput(empty.ID))
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	input := s.creditInput(empty.ID)
	input.CustomerName = "  "
	input.DueDate = time.Time{}
	_, err = s.payments.CreateCreditAccount(s.ctx(service.CapabilityCreateCredit), input)
	s.Require().Equal(apperror.KindValidation, apperror.KindOf(err))
	s.Len(apperror.GetAppError(err).Errors, 2)

	_, err = s.payments.CreateCreditAccount(s.ctx(service.CapabilityCreateCredit), s.creditInput(uuid.New()))
	s.Equal(apperror.KindNotFound, apperror.KindOf(err))
}

func (s *ledgerSuite) TestSettleCredit() {
	product := s.newProduct("Sugar", "25.00", "10", true)
	receipt := s.finalizedReceipt(product, "1", "25.00")

	_, err := s.payments.SettleCreditAccount(s.ctx(service.CapabilitySettleCredit), receipt.ID, s.actor)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	_, err = s.payments.CreateCreditAccount(s.ctx(service.CapabilityCreateCredit), s.creditInput(receipt.ID))
	s.Require().NoError(err)

	_, err = s.payments.SettleCreditAccount(s.ctx(), receipt.ID, s.actor)
	s.Equal(apperror.KindForbidden, apperror.KindOf(err))

	account, err := s.payments.SettleCreditAccount(s.ctx(service.CapabilitySettleCredit), receipt.ID, s.actor)
	s.Require().NoError(err)
	s.True(account.IsSettled)
	s.Require().NotNil(account.SettledBy)
	s.Equal(s.actor, *account.SettledBy)

	_, err = s.payments.SettleCreditAccount(s.ctx(service.CapabilitySettleCredit), receipt.ID, s.actor)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	stored, err := s.sales.GetReceipt(s.ctx(), receipt.ID)
	s.Require().NoError(err)
	s.Equal(enum.ReceiptStatusCredit, stored.Status)
}

func (s *ledgerSuite) TestRefundGuards() {
	product := s.newProduct("Sugar", "25.00", "10", true)
	receipt := s.finalizedReceipt(product, "1", "25.00")

	refund := &service.RefundInput{ReceiptID: receipt.ID, Reason: "wrong item", ActorID: s.actor}

	_, err := s.payments.RefundReceipt(s.ctx(), refund)
	s.Equal(apperror.KindForbidden, apperror.KindOf(err))

	// Still OPEN
	_, err = s.payments.RefundReceipt(s.ctx(service.CapabilityRefundOrder), refund)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	_, err = s.pay(receipt.ID, "25.00", enum.PaymentMethodCash)
	s.Require().NoError(err)

	_, err = s.payments.RefundReceipt(s.ctx(service.CapabilityRefundOrder), &service.RefundInput{ReceiptID: receipt.ID, ActorID: s.actor})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	refunded, err := s.payments.RefundReceipt(s.ctx(service.CapabilityRefundOrder), refund)
	s.Require().NoError(err)
	s.Equal(enum.ReceiptStatusRefunded, refunded.Status)
}
