package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatMessageTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		timestamp time.Time
		expected  string
	}{
		{"thirty seconds ago", now.Add(-30 * time.Second), "Just now"},
		{"five minutes ago", now.Add(-5 * time.Minute), "5 min ago"},
		{"fifty nine minutes ago", now.Add(-59 * time.Minute), "59 min ago"},
		{"three hours ago", now.Add(-3 * time.Hour), "3 hours ago"},
		{"twenty three hours ago", now.Add(-23 * time.Hour), "23 hours ago"},
		{"three days ago", now.Add(-72 * time.Hour), "6/12/2025"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, FormatMessageTime(tc.timestamp, now))
		})
	}
}
