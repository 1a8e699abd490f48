package utils

import (
	"fmt"
	"time"
)

// FormatMessageTime renders a message timestamp relative to now:
// under a minute old reads "Just now", under an hour "N min ago",
// under a day "N hours ago", anything older the calendar date.
func FormatMessageTime(timestamp, now time.Time) string {
	minutes := int(now.Sub(timestamp).Minutes())

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d min ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%d hours ago", minutes/60)
	default:
		return timestamp.Format("1/2/2006")
	}
}
