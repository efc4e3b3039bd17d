package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/sangkips/retail-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// PaymentService handles tenders, credit and refunds. Every state decision
// is taken under the receipt row lock.
type PaymentService struct {
	txManager   repository.TxManager
	receiptRepo repository.ReceiptRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	creditRepo  repository.CreditAccountRepository
	authz       Authorizer
	logger      *slog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	txManager repository.TxManager,
	receiptRepo repository.ReceiptRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	creditRepo repository.CreditAccountRepository,
	authz Authorizer,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		txManager:   txManager,
		receiptRepo: receiptRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		creditRepo:  creditRepo,
		authz:       authz,
		logger:      logger,
	}
}

// Balance is what a receipt owes
type Balance struct {
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Balance decimal.Decimal `json:"balance"`
}

// AcceptPaymentInput represents one tender
type AcceptPaymentInput struct {
	ReceiptID uuid.UUID
	Amount    decimal.Decimal
	Method    enum.PaymentMethod
	ActorID   uuid.UUID
}

// PaymentResult carries the stored payment and the receipt after it
type PaymentResult struct {
	Payment *entity.Payment    `json:"payment"`
	Status  enum.ReceiptStatus `json:"status"`
	Balance Balance            `json:"balance"`
}

// AcceptPayment records a partial or full payment. The payment that covers
// the balance moves the receipt to PAID in the same transaction.
func (s *PaymentService) AcceptPayment(ctx context.Context, input *AcceptPaymentInput) (*PaymentResult, error) {
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if err := money.ValidateAmount("amount", input.Amount); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if !input.Method.IsValid() {
		return nil, apperror.Validation("payment method must be one of CASH, MPESA, CARD")
	}

	result := &PaymentResult{}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		receipt, err := s.lockReceipt(ctx, input.ReceiptID)
		if err != nil {
			return err
		}

		balance, err := s.balanceOf(ctx, receipt)
		if err != nil {
			return err
		}
		// Balance before status: a settled receipt reports the overpayment
		if input.Amount.GreaterThan(balance.Balance) && !s.authz.HasCapability(ctx, input.ActorID, CapabilityOverPayment) {
			return apperror.Validation("payment exceeds remaining balance")
		}
		if receipt.Status != enum.ReceiptStatusOpen {
			return apperror.Validation("payments can only be accepted on an open receipt")
		}

		payment := &entity.Payment{
			ReceiptID:  receipt.ID,
			Method:     input.Method,
			Amount:     input.Amount,
			ReceivedBy: input.ActorID,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		status := receipt.Status
		if input.Amount.GreaterThanOrEqual(balance.Balance) {
			status = enum.ReceiptStatusPaid
			if err := s.receiptRepo.UpdateFields(ctx, receipt.ID, map[string]interface{}{"status": status}); err != nil {
				return err
			}
		}

		paid := balance.Paid.Add(input.Amount)
		result.Payment = payment
		result.Status = status
		result.Balance = Balance{Total: balance.Total, Paid: paid, Balance: balance.Total.Sub(paid)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment accepted",
		slog.String("receipt_id", input.ReceiptID.String()),
		slog.String("method", input.Method.String()),
		slog.String("amount", input.Amount.String()),
		slog.String("status", result.Status.String()),
	)
	return result, nil
}

// ReceiptBalance returns total, amount paid and what is still owed
func (s *PaymentService) ReceiptBalance(ctx context.Context, receiptID uuid.UUID) (*Balance, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	balance, err := s.balanceOf(ctx, receipt)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (s *PaymentService) balanceOf(ctx context.Context, receipt *entity.Receipt) (Balance, error) {
	payments, err := s.paymentRepo.ListByReceipt(ctx, receipt.ID)
	if err != nil {
		return Balance{}, err
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return Balance{Total: receipt.Total, Paid: paid, Balance: receipt.Total.Sub(paid)}, nil
}

// CreateCreditInput represents a credit sale
type CreateCreditInput struct {
	ReceiptID     uuid.UUID
	CustomerName  string
	CustomerPhone string
	DueDate       time.Time
	ActorID       uuid.UUID
}

// CreateCreditAccount hands an open receipt to a customer on credit for its
// full total
func (s *PaymentService) CreateCreditAccount(ctx context.Context, input *CreateCreditInput) (*entity.CreditAccount, error) {
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	var fieldErrors []apperror.FieldError
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_name", Message: "customer_name is required"})
	}
	if input.DueDate.IsZero() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "due_date", Message: "due_date is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	if !s.authz.HasCapability(ctx, input.ActorID, CapabilityCreateCredit) {
		return nil, apperror.NewForbiddenError("you are not allowed to issue credit")
	}

	var account *entity.CreditAccount
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		receipt, err := s.lockReceipt(ctx, input.ReceiptID)
		if err != nil {
			return err
		}
		if receipt.Status != enum.ReceiptStatusOpen {
			return apperror.Validation("credit can only be issued on an open receipt")
		}

		orders, err := s.orderRepo.CountByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}
		if orders == 0 {
			return apperror.Validation("a receipt cannot exist without orders")
		}

		existing, err := s.creditRepo.GetByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.Validation("receipt already has a credit account")
		}

		account = &entity.CreditAccount{
			ReceiptID:     receipt.ID,
			CustomerName:  name,
			CustomerPhone: strings.TrimSpace(input.CustomerPhone),
			CreditAmount:  receipt.Total,
			DueDate:       input.DueDate,
			ApprovedBy:    input.ActorID,
		}
		if err := s.creditRepo.Create(ctx, account); err != nil {
			return err
		}
		return s.receiptRepo.UpdateFields(ctx, receipt.ID, map[string]interface{}{"status": enum.ReceiptStatusCredit})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "credit issued",
		slog.String("receipt_id", input.ReceiptID.String()),
		slog.String("credit_amount", account.CreditAmount.String()),
	)
	return account, nil
}

// SettleCreditAccount marks the credit on a receipt as paid off. The receipt
// keeps its CREDIT status.
func (s *PaymentService) SettleCreditAccount(ctx context.Context, receiptID, actorID uuid.UUID) (*entity.CreditAccount, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if !s.authz.HasCapability(ctx, actorID, CapabilitySettleCredit) {
		return nil, apperror.NewForbiddenError("you are not allowed to settle credit")
	}

	var account *entity.CreditAccount
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		receipt, err := s.lockReceipt(ctx, receiptID)
		if err != nil {
			return err
		}
		if receipt.Status != enum.ReceiptStatusCredit {
			return apperror.Validation("receipt is not on credit")
		}

		account, err = s.creditRepo.GetByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Credit account")
		}
		if account.IsSettled {
			return apperror.Validation("credit account is already settled")
		}

		now := time.Now()
		if err := s.creditRepo.MarkSettled(ctx, account.ID, actorID, now); err != nil {
			return err
		}
		account.IsSettled = true
		account.SettledBy = &actorID
		account.SettledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// RefundInput represents a refund request
type RefundInput struct {
	ReceiptID uuid.UUID
	Reason    string
	ActorID   uuid.UUID
}

// RefundReceipt moves a paid or credit receipt to REFUNDED and flags its
// orders. Stock is not returned here; restocking is an explicit RETURN
// movement grouped under the receipt id.
func (s *PaymentService) RefundReceipt(ctx context.Context, input *RefundInput) (*entity.Receipt, error) {
	if input.ActorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if !s.authz.HasCapability(ctx, input.ActorID, CapabilityRefundOrder) {
		return nil, apperror.NewForbiddenError("you are not allowed to refund receipts")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "reason", Message: "reason is required"}})
	}

	var receipt *entity.Receipt
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.lockReceipt(ctx, input.ReceiptID)
		if err != nil {
			return err
		}
		if !receipt.Status.Refundable() {
			return apperror.Validation("only paid or credit receipts can be refunded")
		}

		now := time.Now()
		if err := s.receiptRepo.UpdateFields(ctx, receipt.ID, map[string]interface{}{
			"status":        enum.ReceiptStatusRefunded,
			"refund_reason": reason,
			"refunded_by":   input.ActorID,
			"refunded_at":   now,
		}); err != nil {
			return err
		}
		if err := s.orderRepo.MarkRefundedByReceipt(ctx, receipt.ID); err != nil {
			return err
		}

		receipt.Status = enum.ReceiptStatusRefunded
		receipt.RefundReason = &reason
		receipt.RefundedBy = &input.ActorID
		receipt.RefundedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "receipt refunded",
		slog.String("receipt_id", receipt.ID.String()),
		slog.String("refunded_by", input.ActorID.String()),
	)
	return receipt, nil
}

func (s *PaymentService) lockReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}
