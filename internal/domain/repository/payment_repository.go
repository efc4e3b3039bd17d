package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.Payment, error)
}

// CreditAccountRepository defines the interface for credit account data operations
type CreditAccountRepository interface {
	Create(ctx context.Context, account *entity.CreditAccount) error
	GetByReceipt(ctx context.Context, receiptID uuid.UUID) (*entity.CreditAccount, error)
	MarkSettled(ctx context.Context, id uuid.UUID, settledBy uuid.UUID, settledAt time.Time) error
}
