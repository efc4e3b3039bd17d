package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new cashier session repository
func NewSessionRepository(db *gorm.DB) domainRepo.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.POSSession) error {
	return TranslateError(conn(ctx, r.db).Create(session).Error)
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.POSSession, error) {
	var session entity.POSSession
	err := conn(ctx, r.db).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, TranslateError(err)
}

func (r *sessionRepository) GetActiveByEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.POSSession, error) {
	var session entity.POSSession
	err := conn(ctx, r.db).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, TranslateError(err)
}

func (r *sessionRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.POSSession, error) {
	var session entity.POSSession
	err := conn(ctx, r.db).Scopes(ForUpdate()).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, TranslateError(err)
}

func (r *sessionRepository) Close(ctx context.Context, id uuid.UUID, closingCash decimal.Decimal, closedAt time.Time) error {
	return TranslateError(conn(ctx, r.db).Model(&entity.POSSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"closing_cash": closingCash,
			"closed_at":    closedAt,
			"is_active":    false,
		}).Error)
}
