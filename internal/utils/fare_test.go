package utils

import "testing"

func TestComputePricing(t *testing.T) {
	cases := []struct {
		name       string
		unitPrice  int64
		seats      int
		refundable bool
		subtotal   int64
		supplement int64
		total      int64
	}{
		{"refundable rounds half up", 1000, 3, true, 3000, 450, 3450},
		{"non refundable has no supplement", 1000, 3, false, 3000, 0, 3000},
		{"single seat", 7500, 1, true, 7500, 1125, 8625},
		{"rounding boundary", 1, 3, true, 3, 1, 4},
		{"free trajet", 0, 2, true, 0, 0, 0},
	}
	for _, tc := range cases {
		q := ComputePricing(tc.unitPrice, tc.seats, tc.refundable)
		if q.Subtotal != tc.subtotal || q.Supplement != tc.supplement || q.Total != tc.total {
			t.Errorf("%s: got %+v, want subtotal=%d supplement=%d total=%d",
				tc.name, q, tc.subtotal, tc.supplement, tc.total)
		}
	}
}

func TestComputePricingDeterministic(t *testing.T) {
	first := ComputePricing(12345, 4, true)
	for i := 0; i < 10; i++ {
		if got := ComputePricing(12345, 4, true); got != first {
			t.Fatalf("pricing must be pure, got %+v then %+v", first, got)
		}
	}
}

func TestFormatFCFA(t *testing.T) {
	cases := map[int64]string{
		0:       "0 FCFA",
		950:     "950 FCFA",
		12500:   "12 500 FCFA",
		1250000: "1 250 000 FCFA",
		-3450:   "-3 450 FCFA",
	}
	for in, want := range cases {
		if got := FormatFCFA(in); got != want {
			t.Errorf("FormatFCFA(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFCFA(t *testing.T) {
	for _, in := range []string{"12 500 FCFA", "12.500", "12500"} {
		got, err := ParseFCFA(in)
		if err != nil {
			t.Fatalf("ParseFCFA(%q) error: %v", in, err)
		}
		if got != 12500 {
			t.Errorf("ParseFCFA(%q) = %d, want 12500", in, got)
		}
	}
	if _, err := ParseFCFA("FCFA"); err == nil {
		t.Error("expected error for empty amount")
	}
}
