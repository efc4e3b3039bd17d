package enum

import (
	"encoding/json"
	"strings"
)

// PaymentMethod represents how a customer paid
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "CASH"
	PaymentMethodMpesa PaymentMethod = "MPESA"
	PaymentMethodCard  PaymentMethod = "CARD"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is an accepted payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMpesa, PaymentMethodCard:
		return true
	}
	return false
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = PaymentMethod(strings.ToUpper(strings.TrimSpace(str)))
	return nil
}
