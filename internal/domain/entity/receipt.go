package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is the anchor of a sale. Orders, payments, the credit account and
// the POS stock audit all hang off it.
type Receipt struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNumber string             `gorm:"size:50;unique;not null" json:"receipt_number"`
	SessionID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"session_id"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by"`
	Subtotal      decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"discount"`
	Total         decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"total"`
	Status        enum.ReceiptStatus `gorm:"size:20;not null;index" json:"status"`
	FinalizedAt   *time.Time         `json:"finalized_at,omitempty"`
	FinalizedBy   *uuid.UUID         `gorm:"type:uuid" json:"finalized_by,omitempty"`
	RefundReason  *string            `gorm:"size:255" json:"refund_reason,omitempty"`
	RefundedBy    *uuid.UUID         `gorm:"type:uuid" json:"refunded_by,omitempty"`
	RefundedAt    *time.Time         `json:"refunded_at,omitempty"`
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Orders        []Order            `gorm:"foreignKey:ReceiptID" json:"orders,omitempty"`
	Payments      []Payment          `gorm:"foreignKey:ReceiptID" json:"payments,omitempty"`
	CreditAccount *CreditAccount     `gorm:"foreignKey:ReceiptID" json:"credit_account,omitempty"`
	StockAudit    []POSStockMovement `gorm:"foreignKey:ReceiptID" json:"stock_audit,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// IsFinalized reports whether totals and stock effects have been emitted
func (r *Receipt) IsFinalized() bool {
	return r.FinalizedAt != nil
}

// Order is one basket on a receipt; a receipt may merge several
type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID  uuid.UUID `gorm:"type:uuid;not null;index" json:"receipt_id"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	IsSaved    bool      `gorm:"not null" json:"is_saved"`
	IsRefunded bool      `gorm:"not null" json:"is_refunded"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a sold line. ListedPrice, FinalPrice and LineTotal are
// snapshots taken when the line is added and are never rewritten.
type OrderItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName         string          `gorm:"size:150;not null" json:"product_name"`
	PriceListID         uuid.UUID       `gorm:"type:uuid;not null" json:"price_list_id"`
	Quantity            decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity"`
	ListedPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"listed_price"`
	FinalPrice          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"final_price"`
	PriceOverridden     bool            `gorm:"not null" json:"price_overridden"`
	PriceOverrideBy     *uuid.UUID      `gorm:"type:uuid" json:"price_override_by,omitempty"`
	PriceOverrideReason *string         `gorm:"size:255" json:"price_override_reason,omitempty"`
	SoldBy              uuid.UUID       `gorm:"type:uuid;not null" json:"sold_by"`
	LineTotal           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
	CreatedAt           time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
