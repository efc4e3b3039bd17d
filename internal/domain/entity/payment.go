package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is one tender against a receipt; partial and merged payments are
// several rows on the same receipt.
type Payment struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"receipt_id"`
	Method     enum.PaymentMethod `gorm:"size:20;not null" json:"method"`
	Amount     decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"amount"`
	ReceivedBy uuid.UUID          `gorm:"type:uuid;not null" json:"received_by"`
	CreatedAt  time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// CreditAccount records a sale handed to a customer on credit
type CreditAccount struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"receipt_id"`
	CustomerName  string          `gorm:"size:150;not null" json:"customer_name"`
	CustomerPhone string          `gorm:"size:30" json:"customer_phone"`
	CreditAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"credit_amount"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	ApprovedBy    uuid.UUID       `gorm:"type:uuid;not null" json:"approved_by"`
	IsSettled     bool            `gorm:"not null" json:"is_settled"`
	SettledBy     *uuid.UUID      `gorm:"type:uuid" json:"settled_by,omitempty"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new credit account
func (c *CreditAccount) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditAccount model
func (CreditAccount) TableName() string {
	return "credit_accounts"
}
