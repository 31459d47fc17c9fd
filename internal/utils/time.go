package utils

import (
	"strings"
	"time"
)

// Wire formats for trajet departures and listing filters.
const (
	layoutDay       = "2006-01-02"
	layoutDeparture = "2006-01-02 15:04:05"
)

// NowUTC is the single clock for reservation timestamps.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses a YYYY-MM-DD listing filter in local time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDay, strings.TrimSpace(s), time.Local)
}

// ParseDateTime parses a "YYYY-MM-DD HH:MM:SS" departure in local time.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDeparture, strings.TrimSpace(s), time.Local)
}

// FormatDateTime renders a departure for tickets and logs.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDeparture)
}
