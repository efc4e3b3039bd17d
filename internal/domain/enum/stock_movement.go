package enum

import (
	"encoding/json"
	"strings"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementTypeIn  MovementType = "IN"
	MovementTypeOut MovementType = "OUT"
)

func (t MovementType) String() string {
	return string(t)
}

// IsValid reports whether t is IN or OUT
func (t MovementType) IsValid() bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

func (t *MovementType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = MovementType(strings.ToUpper(strings.TrimSpace(str)))
	return nil
}

// MovementReason explains why stock moved
type MovementReason string

const (
	MovementReasonPurchase   MovementReason = "PURCHASE"
	MovementReasonReturn     MovementReason = "RETURN"
	MovementReasonAdjustment MovementReason = "ADJUSTMENT"
	MovementReasonSale       MovementReason = "SALE"
	MovementReasonCooking    MovementReason = "COOKING"
	MovementReasonDamaged    MovementReason = "DAMAGED"
	MovementReasonLost       MovementReason = "LOST"
)

var reasonsByType = map[MovementType][]MovementReason{
	MovementTypeIn: {
		MovementReasonPurchase,
		MovementReasonReturn,
		MovementReasonAdjustment,
	},
	MovementTypeOut: {
		MovementReasonSale,
		MovementReasonCooking,
		MovementReasonDamaged,
		MovementReasonLost,
		MovementReasonAdjustment,
	},
}

func (r MovementReason) String() string {
	return string(r)
}

// ValidFor reports whether r may be used with movement type t.
// SALE is outbound only and PURCHASE inbound only.
func (r MovementReason) ValidFor(t MovementType) bool {
	for _, allowed := range reasonsByType[t] {
		if allowed == r {
			return true
		}
	}
	return false
}

// ReasonsFor lists the reasons accepted for t
func ReasonsFor(t MovementType) []MovementReason {
	out := make([]MovementReason, len(reasonsByType[t]))
	copy(out, reasonsByType[t])
	return out
}

func (r *MovementReason) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*r = MovementReason(strings.ToUpper(strings.TrimSpace(str)))
	return nil
}
