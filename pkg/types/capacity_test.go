package types

import (
	"encoding/json"
	"testing"
)

func TestCapacityFromQuantity(t *testing.T) {
	if !CapacityFromQuantity(-1).IsUnlimited() {
		t.Fatal("expected -1 to map to unlimited")
	}
	cap := CapacityFromQuantity(5)
	if cap.IsUnlimited() {
		t.Fatal("expected bounded capacity")
	}
	if limit, ok := cap.Limit(); !ok || limit != 5 {
		t.Fatalf("expected limit 5, got %d ok=%v", limit, ok)
	}
	if cap.Quantity() != 5 {
		t.Fatalf("expected quantity 5, got %d", cap.Quantity())
	}
	if Unlimited().Quantity() != UnlimitedQuantity {
		t.Fatal("expected unlimited sentinel round-trip")
	}
}

func TestCapacityAllows(t *testing.T) {
	cap := Bounded(2)
	if !cap.Allows(0) || !cap.Allows(1) {
		t.Fatal("expected seats below the cap to be allowed")
	}
	if cap.Allows(2) {
		t.Fatal("expected full capacity to deny another seat")
	}
	if !Unlimited().Allows(1_000_000) {
		t.Fatal("expected unlimited capacity to always allow")
	}
}

func TestCapacityRemaining(t *testing.T) {
	cap := Bounded(3)
	if free, ok := cap.Remaining(1); !ok || free != 2 {
		t.Fatalf("expected 2 remaining, got %d ok=%v", free, ok)
	}
	if free, ok := cap.Remaining(10); !ok || free != 0 {
		t.Fatalf("expected remaining floored at zero, got %d ok=%v", free, ok)
	}
	if _, ok := Unlimited().Remaining(10); ok {
		t.Fatal("expected unlimited capacity to report no bound")
	}
}

func TestCapacityJSONRoundTrip(t *testing.T) {
	for _, cap := range []Capacity{Unlimited(), Bounded(0), Bounded(7)} {
		raw, err := json.Marshal(cap)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back Capacity
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if back != cap {
			t.Fatalf("round trip mismatch: %v != %v", back, cap)
		}
	}
}

func TestCapacityUnmarshalRejectsMissingLimit(t *testing.T) {
	var cap Capacity
	if err := json.Unmarshal([]byte(`{"unlimited":false}`), &cap); err == nil {
		t.Fatal("expected error for bounded capacity without limit")
	}
}
