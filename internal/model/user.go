package model

import (
	"strings"
)

// User is the session identity taken from the Telegram host once at startup.
type User struct {
	ID               int64  `json:"id"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	Username         string `json:"username,omitempty"`
	PhotoURL         string `json:"photo_url,omitempty"`
	IsTelegramOrigin bool   `json:"is_telegram_origin"`
}

// DisplayName builds a human-readable name. It never renders a lone "@":
// an empty profile degrades to "Unknown" instead.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if username := strings.TrimPrefix(strings.TrimSpace(u.Username), "@"); username != "" {
		return username
	}
	return "Unknown"
}

// Snapshot mirrors the backend-authoritative view of one user. It is only
// ever replaced wholesale by a re-fetch, never mutated in place.
type Snapshot struct {
	User     User            `json:"user"`
	Balance  int64           `json:"balance"`
	Orders   []HistoryRecord `json:"orders"`
	Payments []HistoryRecord `json:"payments"`
}
