package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/pagination"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return TranslateError(conn(ctx, r.db).Create(product).Error)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, TranslateError(err)
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&products).Error
	return products, TranslateError(err)
}

func (r *productRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).Scopes(ForUpdate()).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, TranslateError(err)
}

type stockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository creates a new append-only movement repository
func NewStockMovementRepository(db *gorm.DB) domainRepo.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *entity.StockMovement) error {
	return TranslateError(conn(ctx, r.db).Create(movement).Error)
}

func (r *stockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.StockMovement, error) {
	var movements []entity.StockMovement
	err := conn(ctx, r.db).
		Select("id", "product_id", "quantity", "movement_type").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, TranslateError(err)
}

func (r *stockMovementRepository) List(ctx context.Context, params *domainRepo.MovementFilterParams) ([]entity.StockMovement, int64, error) {
	var movements []entity.StockMovement
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockMovement{})
	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.GroupID != "" {
		query = query.Where("group_id = ?", params.GroupID)
	}
	if params.ReceiptID != nil {
		query = query.Where("receipt_id = ?", *params.ReceiptID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, TranslateError(err)
	}

	page := params.Pagination
	if page == nil {
		page = pagination.DefaultParams()
	}
	page.Validate()
	err := query.Offset(page.Offset()).Limit(page.PerPage).
		Order("created_at DESC").
		Find(&movements).Error

	return movements, total, TranslateError(err)
}

func (r *stockMovementRepository) CreateAudit(ctx context.Context, audit *entity.POSStockMovement) error {
	return TranslateError(conn(ctx, r.db).Create(audit).Error)
}

func (r *stockMovementRepository) ListAuditByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.POSStockMovement, error) {
	var audits []entity.POSStockMovement
	err := conn(ctx, r.db).
		Where("receipt_id = ?", receiptID).
		Order("created_at ASC").
		Find(&audits).Error
	return audits, TranslateError(err)
}

type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new stock count repository
func NewReconciliationRepository(db *gorm.DB) domainRepo.ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) Create(ctx context.Context, reconciliation *entity.StockReconciliation) error {
	return TranslateError(conn(ctx, r.db).Create(reconciliation).Error)
}

func (r *reconciliationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockReconciliation, error) {
	var reconciliation entity.StockReconciliation
	err := conn(ctx, r.db).First(&reconciliation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reconciliation, TranslateError(err)
}

func (r *reconciliationRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.StockReconciliation, error) {
	var reconciliation entity.StockReconciliation
	err := conn(ctx, r.db).Scopes(ForUpdate()).First(&reconciliation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reconciliation, TranslateError(err)
}

func (r *reconciliationRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return TranslateError(conn(ctx, r.db).Model(&entity.StockReconciliation{}).
		Where("id = ?", id).
		Updates(fields).Error)
}

func (r *reconciliationRepository) ListPending(ctx context.Context, params *pagination.Params) ([]entity.StockReconciliation, int64, error) {
	var reconciliations []entity.StockReconciliation
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockReconciliation{}).Where("status = ?", enum.ReconciliationStatusPending)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, TranslateError(err)
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at ASC").
		Find(&reconciliations).Error

	return reconciliations, total, TranslateError(err)
}
