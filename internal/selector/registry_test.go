package selector

import "testing"

func TestRegistryDefaults(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	if got := reg.Name("0x627CDCB9"); got != "incrementNonce" {
		t.Fatalf("incrementNonce mismatch: %s", got)
	}
	if got := reg.Name("0x2287e350000000000000000000000000"); got != "matchOrders" {
		t.Fatalf("calldata prefix mismatch: %s", got)
	}
	if got := reg.Name("0xdeadbeef"); got != "unknown" {
		t.Fatalf("unknown selector mismatch: %s", got)
	}
	if got := reg.Name("garbage"); got != "unknown" {
		t.Fatalf("invalid selector should be unknown: %s", got)
	}
}

func TestRegistryExtra(t *testing.T) {
	reg, err := NewRegistry(map[string]string{
		"DEADBEEF":   "cancelOrders",
		"0x627cdcb9": "bumpNonce",
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if got := reg.Name("0xdeadbeef"); got != "cancelOrders" {
		t.Fatalf("extra selector mismatch: %s", got)
	}
	if got := reg.Name(IncrementNonce); got != "bumpNonce" {
		t.Fatalf("override mismatch: %s", got)
	}
}

func TestRegistryRejectsInvalidExtra(t *testing.T) {
	if _, err := NewRegistry(map[string]string{"0x1234": "short"}); err == nil {
		t.Fatalf("expected error for short selector")
	}
	if _, err := NewRegistry(map[string]string{"0xdeadbeef": " "}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
