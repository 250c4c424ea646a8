package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackendDate(t *testing.T) {
	ts, ok := ParseBackendDate("📆12.01.2026 | ⏰12:03")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 12, 12, 3, 0, 0, time.Local), ts)
}

func TestParseBackendDateWithoutDecorations(t *testing.T) {
	ts, ok := ParseBackendDate("03.02.2026 | 18:19")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.February, 3, 18, 19, 0, 0, time.Local), ts)
}

func TestParseBackendDateDateOnly(t *testing.T) {
	ts, ok := ParseBackendDate("📆01.12.2025")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local), ts)
}

func TestParseBackendDateGarbage(t *testing.T) {
	for _, raw := range []string{"garbage", "", "📆 | ⏰", "99.99.9999 | 25:61"} {
		_, ok := ParseBackendDate(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}
