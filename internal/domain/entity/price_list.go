package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceList is a named set of selling prices; the default list feeds the POS
type PriceList struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	IsDefault   bool      `gorm:"not null;index" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Items []PriceListItem `gorm:"foreignKey:PriceListID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new price list
func (p *PriceList) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PriceList model
func (PriceList) TableName() string {
	return "price_lists"
}

// PriceListItem is the selling price of one product on one list
type PriceListItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PriceListID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_product" json:"price_list_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_product" json:"product_id"`
	ProductName  string          `gorm:"size:150;not null" json:"product_name"`
	SellingPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"selling_price"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new price list item
func (p *PriceListItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PriceListItem model
func (PriceListItem) TableName() string {
	return "price_list_items"
}
