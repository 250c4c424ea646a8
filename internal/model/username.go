package model

import "strings"

// Telegram usernames: letters, digits and underscore, 5 to 32 characters.
const (
	UsernameMinLen = 5
	UsernameMaxLen = 32
)

// LookupStatus is the lifecycle of one recipient lookup.
type LookupStatus string

const (
	LookupIdle     LookupStatus = "idle"
	LookupLoading  LookupStatus = "loading"
	LookupFound    LookupStatus = "found"
	LookupNotFound LookupStatus = "not-found"
	LookupInvalid  LookupStatus = "invalid"
)

// RecipientProfile is the transient result of a username lookup. It is
// re-derived on every check and never persisted.
type RecipientProfile struct {
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name,omitempty"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	HasPremium  bool         `json:"has_premium"`
	Status      LookupStatus `json:"status"`
}

// NormalizeUsername strips a leading "@" and surrounding whitespace.
func NormalizeUsername(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "@")
}

// ValidateUsername reports whether a normalized username is well-formed.
func ValidateUsername(username string) bool {
	if len(username) < UsernameMinLen || len(username) > UsernameMaxLen {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
