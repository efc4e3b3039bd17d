package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockMovement is one append-only entry of the inventory ledger. Rows are
// inserted and read, never updated or deleted; corrections are new
// ADJUSTMENT movements.
type StockMovement struct {
	ID               uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	ProductID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity         decimal.Decimal     `gorm:"type:numeric(12,3);not null" json:"quantity"`
	MovementType     enum.MovementType   `gorm:"size:10;not null" json:"movement_type"`
	Reason           enum.MovementReason `gorm:"size:20;not null" json:"reason"`
	ExpenseItemID    *uuid.UUID          `gorm:"type:uuid;index" json:"expense_item_id,omitempty"`
	FundedByBusiness bool                `gorm:"not null" json:"funded_by_business"`
	PerformedBy      uuid.UUID           `gorm:"type:uuid;not null" json:"performed_by"`
	GroupID          *string             `gorm:"size:100;index" json:"group_id,omitempty"`
	ReceiptID        *uuid.UUID          `gorm:"type:uuid;index" json:"receipt_id,omitempty"`
	OrderItemID      *uuid.UUID          `gorm:"type:uuid" json:"order_item_id,omitempty"`
	Notes            *string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time           `gorm:"index" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}

// Signed returns the quantity with the sign of its direction
func (m StockMovement) Signed() decimal.Decimal {
	if m.MovementType == enum.MovementTypeOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// POSStockMovement is the sales side's own append-only memory of what a
// receipt meant for stock, written for every sold line whether or not the
// inventory ledger accepted the deduction.
type POSStockMovement struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	OrderItemID           uuid.UUID       `gorm:"type:uuid;not null" json:"order_item_id"`
	ProductID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity              decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity"`
	DeductedFromInventory bool            `gorm:"not null" json:"deducted_from_inventory"`
	Notes                 string          `gorm:"type:text;not null" json:"notes"`
	PerformedBy           uuid.UUID       `gorm:"type:uuid;not null" json:"performed_by"`
	CreatedAt             time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new audit row
func (m *POSStockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the POSStockMovement model
func (POSStockMovement) TableName() string {
	return "pos_stock_movements"
}
