package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stock-keeping item. Its stock level lives in the movement ledger.
type Product struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name             string    `gorm:"size:200;not null" json:"name"`
	Category         *string   `gorm:"size:200" json:"category,omitempty"`
	Unit             string    `gorm:"size:50;not null" json:"unit"`
	AutoDeductOnSale bool      `gorm:"not null" json:"auto_deduct_on_sale"`
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// CurrentStock is filled from the ledger on read and never persisted
	CurrentStock decimal.Decimal `gorm:"-" json:"current_stock"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
