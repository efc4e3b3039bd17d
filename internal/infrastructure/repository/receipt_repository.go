package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/pagination"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return TranslateError(conn(ctx, r.db).Omit("Orders", "Payments", "CreditAccount", "StockAudit").Create(receipt).Error)
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, TranslateError(err)
}

func (r *receiptRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Orders.Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("CreditAccount").
		Preload("StockAudit").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, TranslateError(err)
}

func (r *receiptRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).Scopes(ForUpdate()).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, TranslateError(err)
}

func (r *receiptRepository) ExistsByNumber(ctx context.Context, receiptNumber string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Receipt{}).
		Where("receipt_number = ?", receiptNumber).
		Count(&count).Error
	return count > 0, TranslateError(err)
}

func (r *receiptRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, params *pagination.Params) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := conn(ctx, r.db).Model(&entity.Receipt{}).Where("session_id = ?", sessionID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, TranslateError(err)
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&receipts).Error

	return receipts, total, TranslateError(err)
}

func (r *receiptRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return TranslateError(conn(ctx, r.db).Model(&entity.Receipt{}).
		Where("id = ?", id).
		Updates(fields).Error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return TranslateError(conn(ctx, r.db).Omit("Items").Create(order).Error)
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, TranslateError(err)
}

func (r *orderRepository) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	err := conn(ctx, r.db).
		Where("receipt_id = ?", receiptID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, TranslateError(err)
}

func (r *orderRepository) CountByReceipt(ctx context.Context, receiptID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Order{}).
		Where("receipt_id = ?", receiptID).
		Count(&count).Error
	return count, TranslateError(err)
}

func (r *orderRepository) AddItem(ctx context.Context, item *entity.OrderItem) error {
	return TranslateError(conn(ctx, r.db).Create(item).Error)
}

func (r *orderRepository) MarkSavedByReceipt(ctx context.Context, receiptID uuid.UUID) error {
	return TranslateError(conn(ctx, r.db).Model(&entity.Order{}).
		Where("receipt_id = ?", receiptID).
		Update("is_saved", true).Error)
}

func (r *orderRepository) MarkRefundedByReceipt(ctx context.Context, receiptID uuid.UUID) error {
	return TranslateError(conn(ctx, r.db).Model(&entity.Order{}).
		Where("receipt_id = ?", receiptID).
		Update("is_refunded", true).Error)
}
