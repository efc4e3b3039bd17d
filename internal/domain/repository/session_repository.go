package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SessionRepository defines the interface for cashier session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *entity.POSSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.POSSession, error)
	// GetActiveByEmployee returns the open session of an employee, or nil
	GetActiveByEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.POSSession, error)
	// LockByID reads the session with a row lock held until the transaction ends
	LockByID(ctx context.Context, id uuid.UUID) (*entity.POSSession, error)
	Close(ctx context.Context, id uuid.UUID, closingCash decimal.Decimal, closedAt time.Time) error
}
