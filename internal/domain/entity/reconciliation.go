package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockReconciliation proposes a correction from a physical count. It has no
// effect on the ledger until approved.
type StockReconciliation struct {
	ID                   uuid.UUID                 `gorm:"type:uuid;primary_key" json:"id"`
	ProductID            uuid.UUID                 `gorm:"type:uuid;not null;index" json:"product_id"`
	CountedQuantity      decimal.Decimal           `gorm:"type:numeric(12,3);not null" json:"counted_quantity"`
	SystemQuantity       decimal.Decimal           `gorm:"type:numeric(12,3);not null" json:"system_quantity"`
	Difference           decimal.Decimal           `gorm:"type:numeric(12,3);not null" json:"difference"`
	Status               enum.ReconciliationStatus `gorm:"size:20;not null;index" json:"status"`
	Notes                *string                   `gorm:"type:text" json:"notes,omitempty"`
	CountedBy            uuid.UUID                 `gorm:"type:uuid;not null" json:"counted_by"`
	ApprovedBy           *uuid.UUID                `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt           *time.Time                `json:"approved_at,omitempty"`
	RejectedBy           *uuid.UUID                `gorm:"type:uuid" json:"rejected_by,omitempty"`
	RejectedAt           *time.Time                `json:"rejected_at,omitempty"`
	AdjustmentMovementID *uuid.UUID                `gorm:"type:uuid" json:"adjustment_movement_id,omitempty"`
	CreatedAt            time.Time                 `json:"created_at"`
	UpdatedAt            time.Time                 `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new reconciliation
func (r *StockReconciliation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockReconciliation model
func (StockReconciliation) TableName() string {
	return "stock_reconciliations"
}

// GroupID correlates the adjustment movement with this count
func (r *StockReconciliation) GroupID() string {
	return fmt.Sprintf("RECON-%s", r.ID)
}
