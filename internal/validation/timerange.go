package validation

import (
	"strconv"
	"strings"
)

// TimeRangeResult carries the single blocking error of a time-range check.
type TimeRangeResult struct {
	Error string `json:"error"`
}

const minDurationMinutes = 60

// ValidateTimeRange checks an HH:MM start/end pair. A missing or
// unparsable side disables the check; bookings must run at least one
// hour and end after they start.
func ValidateTimeRange(start, end string) TimeRangeResult {
	startMin, okStart := ParseClock(start)
	endMin, okEnd := ParseClock(end)
	if !okStart || !okEnd {
		return TimeRangeResult{}
	}

	if endMin <= startMin {
		return TimeRangeResult{Error: "End time must be later than start time"}
	}
	if endMin-startMin < minDurationMinutes {
		return TimeRangeResult{Error: "Booking must be at least 1 hour"}
	}
	return TimeRangeResult{}
}

// ParseClock converts an HH:MM string into minutes since midnight.
func ParseClock(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}
