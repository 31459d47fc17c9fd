package utils

import "strings"

// NormalizeSpace trims and collapses repeated whitespace, so passenger
// names and city labels compare consistently.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeCity lowercases and collapses a city name. Listing filters
// match on the normalized form.
func NormalizeCity(s string) string {
	return strings.ToLower(NormalizeSpace(s))
}
