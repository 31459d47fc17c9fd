package utils

import (
	"regexp"
	"strings"
)

// Malian mobile numbers: 8 digits starting 5-9, optional +223/00223 prefix.
var malianMobileRe = regexp.MustCompile(`^(?:\+223|00223)?[5-9]\d{7}$`)

// NormalizePhone strips spaces, dots and dashes from a phone input.
func NormalizePhone(s string) string {
	replacer := strings.NewReplacer(" ", "", ".", "", "-", "")
	return replacer.Replace(strings.TrimSpace(s))
}

// IsValidPhone reports whether s is an accepted national mobile number.
func IsValidPhone(s string) bool {
	return malianMobileRe.MatchString(NormalizePhone(s))
}
