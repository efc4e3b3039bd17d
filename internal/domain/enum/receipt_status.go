package enum

import (
	"encoding/json"
	"strings"
)

// ReceiptStatus represents where a receipt sits in the sale lifecycle
type ReceiptStatus string

const (
	ReceiptStatusOpen     ReceiptStatus = "OPEN"
	ReceiptStatusPaid     ReceiptStatus = "PAID"
	ReceiptStatusCredit   ReceiptStatus = "CREDIT"
	ReceiptStatusRefunded ReceiptStatus = "REFUNDED"
)

func (s ReceiptStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusOpen, ReceiptStatusPaid, ReceiptStatusCredit, ReceiptStatusRefunded:
		return true
	}
	return false
}

// Refundable reports whether a receipt in this status may be refunded
func (s ReceiptStatus) Refundable() bool {
	return s == ReceiptStatusPaid || s == ReceiptStatusCredit
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ReceiptStatus(strings.ToUpper(strings.TrimSpace(str)))
	return nil
}
