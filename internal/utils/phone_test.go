package utils

import "testing"

func TestIsValidPhone(t *testing.T) {
	valid := []string{
		"76123456",
		"+22376123456",
		"0022376123456",
		"76 12 34 56",
		"+223 76-12-34-56",
		"51234567",
		"91234567",
	}
	for _, s := range valid {
		if !IsValidPhone(s) {
			t.Errorf("%q should be valid", s)
		}
	}

	invalid := []string{
		"",
		"12345678",
		"4612345",
		"761234567",
		"7612345",
		"+22276123456",
		"abcdefgh",
	}
	for _, s := range invalid {
		if IsValidPhone(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone(" +223 76.12-34 56 "); got != "+22376123456" {
		t.Errorf("NormalizePhone = %q", got)
	}
}
