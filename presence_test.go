package site

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceOnline(t *testing.T) {
	p, err := NewPresence(PresenceConfig{})
	require.NoError(t, err)

	// Asia/Kolkata is UTC+5:30.
	tests := []struct {
		utc  string
		want bool
	}{
		{"2025-01-01T03:29:00Z", false}, // 08:59 IST
		{"2025-01-01T03:30:00Z", true},  // 09:00 IST
		{"2025-01-01T15:29:00Z", true},  // 20:59 IST
		{"2025-01-01T15:30:00Z", false}, // 21:00 IST
		{"2025-01-01T20:00:00Z", false}, // 01:30 IST
	}
	for _, tt := range tests {
		at, err := time.Parse(time.RFC3339, tt.utc)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Online(at), tt.utc)
	}
}

func TestPresenceConfig(t *testing.T) {
	_, err := NewPresence(PresenceConfig{TimeZone: "Mars/Olympus"})
	assert.Error(t, err)

	_, err = NewPresence(PresenceConfig{TimeZone: "UTC", OpenHour: 18, CloseHour: 9})
	assert.Error(t, err)

	p, err := NewPresence(PresenceConfig{TimeZone: "UTC", OpenHour: 0, CloseHour: 24})
	require.NoError(t, err)
	assert.True(t, p.Online(time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)))
}
