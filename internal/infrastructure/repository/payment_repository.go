package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return TranslateError(conn(ctx, r.db).Create(payment).Error)
}

func (r *paymentRepository) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := conn(ctx, r.db).
		Where("receipt_id = ?", receiptID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, TranslateError(err)
}

type creditAccountRepository struct {
	db *gorm.DB
}

// NewCreditAccountRepository creates a new credit account repository
func NewCreditAccountRepository(db *gorm.DB) domainRepo.CreditAccountRepository {
	return &creditAccountRepository{db: db}
}

func (r *creditAccountRepository) Create(ctx context.Context, account *entity.CreditAccount) error {
	return TranslateError(conn(ctx, r.db).Create(account).Error)
}

func (r *creditAccountRepository) GetByReceipt(ctx context.Context, receiptID uuid.UUID) (*entity.CreditAccount, error) {
	var account entity.CreditAccount
	err := conn(ctx, r.db).First(&account, "receipt_id = ?", receiptID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, TranslateError(err)
}

func (r *creditAccountRepository) MarkSettled(ctx context.Context, id uuid.UUID, settledBy uuid.UUID, settledAt time.Time) error {
	return TranslateError(conn(ctx, r.db).Model(&entity.CreditAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_settled": true,
			"settled_by": settledBy,
			"settled_at": settledAt,
		}).Error)
}
