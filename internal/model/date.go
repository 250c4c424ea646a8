package model

import (
	"strings"
	"time"
	"unicode"
)

// Upstream dates look like "📆12.01.2026 | ⏰12:03": a day.month.year and
// HH:mm pair separated by a pipe, with decorative emoji glued on.

// ParseBackendDate parses an upstream date string. It strips decorative
// runes first and never fails hard: malformed input returns the zero time
// and ok=false so list rendering can fall back to "unknown date".
func ParseBackendDate(raw string) (time.Time, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' || r == ':' || r == '|' || r == ' ' {
			return r
		}
		return -1
	}, raw)

	parts := strings.SplitN(cleaned, "|", 2)
	datePart := strings.TrimSpace(parts[0])
	timePart := "00:00"
	if len(parts) == 2 {
		timePart = strings.TrimSpace(parts[1])
	}

	t, err := time.ParseInLocation("02.01.2006 15:04", datePart+" "+timePart, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
