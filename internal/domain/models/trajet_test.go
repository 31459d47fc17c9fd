package models

import "testing"

func TestTrajetTransitions(t *testing.T) {
	allowed := []struct{ from, to TrajetStatus }{
		{TrajetActive, TrajetCancelled},
		{TrajetActive, TrajetExpired},
		{TrajetActive, TrajetInProgress},
		{TrajetInProgress, TrajetCompleted},
	}
	for _, tc := range allowed {
		if !CanTransitionTrajet(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to TrajetStatus }{
		{TrajetExpired, TrajetActive},
		{TrajetCancelled, TrajetActive},
		{TrajetCompleted, TrajetActive},
		{TrajetActive, TrajetCompleted},
		{TrajetExpired, TrajetInProgress},
	}
	for _, tc := range forbidden {
		if CanTransitionTrajet(tc.from, tc.to) {
			t.Errorf("%s -> %s must be rejected", tc.from, tc.to)
		}
	}
}

func TestTransitionTrajetError(t *testing.T) {
	if _, err := TransitionTrajet(TrajetExpired, TrajetActive); err == nil {
		t.Fatal("expired trajets must never reactivate")
	}
	got, err := TransitionTrajet(TrajetActive, TrajetCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != TrajetCancelled {
		t.Fatalf("got %s", got)
	}
}

func TestParseTrajetStatus(t *testing.T) {
	if _, err := ParseTrajetStatus("paused"); err == nil {
		t.Error("unknown status must fail")
	}
	got, err := ParseTrajetStatus("active")
	if err != nil || got != TrajetActive {
		t.Errorf("ParseTrajetStatus(active) = %v, %v", got, err)
	}
}

func TestParseVehicleType(t *testing.T) {
	for _, s := range []string{"bus", "minibus", "car", "truck"} {
		if _, err := ParseVehicleType(s); err != nil {
			t.Errorf("%q should parse: %v", s, err)
		}
	}
	if _, err := ParseVehicleType("moto"); err == nil {
		t.Error("unknown vehicle type must fail")
	}
}

func TestTrajetEditable(t *testing.T) {
	for _, s := range []TrajetStatus{TrajetActive, TrajetCancelled, TrajetExpired} {
		if !(Trajet{Status: s}).Editable() {
			t.Errorf("%s trajets should accept edits", s)
		}
	}
	for _, s := range []TrajetStatus{TrajetCompleted, TrajetInProgress} {
		if (Trajet{Status: s}).Editable() {
			t.Errorf("%s trajets must not be editable", s)
		}
	}
}
