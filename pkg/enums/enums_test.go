package enums

import "testing"

func TestParsePresentationDefaultsToUnit(t *testing.T) {
	p, err := ParsePresentation("")
	if err != nil || p != PresentationUnit {
		t.Fatalf("expected unit, got %q err=%v", p, err)
	}
	p, err = ParsePresentation(" BULK ")
	if err != nil || p != PresentationBulk {
		t.Fatalf("expected bulk, got %q err=%v", p, err)
	}
	if _, err := ParsePresentation("pallet"); err == nil {
		t.Fatal("expected error for unknown presentation")
	}
}

func TestOrderStatusDefault(t *testing.T) {
	if got := OrderStatus("").OrDefault(); got != OrderStatusPending {
		t.Fatalf("expected pendiente, got %q", got)
	}
	if got := OrderStatusCancelled.OrDefault(); got != OrderStatusCancelled {
		t.Fatalf("expected cancelado, got %q", got)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if s, err := ParseOrderStatus("Completado"); err != nil || s != OrderStatusCompleted {
		t.Fatalf("expected completado, got %q err=%v", s, err)
	}
}

func TestUserRoleAndVisibility(t *testing.T) {
	if !UserRoleAdmin.IsValid() || UserRole("owner").IsValid() {
		t.Fatal("unexpected role validity")
	}
	v, err := ParseVisibilityFilter("")
	if err != nil || v != VisibilityAll {
		t.Fatalf("expected all, got %q err=%v", v, err)
	}
	if _, err := ParseVisibilityFilter("archived"); err == nil {
		t.Fatal("expected error for unknown visibility")
	}
}
