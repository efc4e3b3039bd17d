package enum

// ReconciliationStatus tracks a physical stock count through review
type ReconciliationStatus string

const (
	ReconciliationStatusPending  ReconciliationStatus = "PENDING"
	ReconciliationStatusApproved ReconciliationStatus = "APPROVED"
	ReconciliationStatusRejected ReconciliationStatus = "REJECTED"
)

func (s ReconciliationStatus) String() string {
	return string(s)
}

// IsResolved reports whether the count has left PENDING; resolved counts are terminal
func (s ReconciliationStatus) IsResolved() bool {
	return s == ReconciliationStatusApproved || s == ReconciliationStatusRejected
}
