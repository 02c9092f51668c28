package enums

import "testing"

func TestOrderStatusIsValid(t *testing.T) {
	if !OrderStatusNew.IsValid() {
		t.Fatal("expected new to be a valid status")
	}
	if OrderStatus("shipped").IsValid() {
		t.Fatal("unknown status should not be valid")
	}
}

func TestOrderStatusHasNoTransitions(t *testing.T) {
	if OrderStatusNew.CanTransitionTo(OrderStatusNew) {
		t.Fatal("no transition out of new is defined")
	}
	if OrderStatusNew.CanTransitionTo(OrderStatus("paid")) {
		t.Fatal("no transition out of new is defined")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("new")
	if err != nil {
		t.Fatalf("parse new: %v", err)
	}
	if status != OrderStatusNew {
		t.Fatalf("unexpected status %s", status)
	}
	if _, err := ParseOrderStatus("cancelled"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}
