package enums

import "fmt"

// OrderStatus tracks the lifecycle of an order. The ledger only ever creates
// orders in the new state; no outbound transition is defined.
type OrderStatus string

const (
	OrderStatusNew OrderStatus = "new"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNew,
}

// orderStatusTransitions is the closed transition table. It is intentionally
// empty: no operation moves an order out of new.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew: {},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the transition table allows moving to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
