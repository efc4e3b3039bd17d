package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// POSSession is a cashier shift. An employee holds at most one active session.
type POSSession struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"employee_id"`
	OpenedAt    time.Time        `gorm:"not null" json:"opened_at"`
	ClosedAt    *time.Time       `json:"closed_at,omitempty"`
	OpeningCash decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"opening_cash"`
	ClosingCash *decimal.Decimal `gorm:"type:numeric(12,2)" json:"closing_cash,omitempty"`
	IsActive    bool             `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *POSSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the POSSession model
func (POSSession) TableName() string {
	return "pos_sessions"
}
