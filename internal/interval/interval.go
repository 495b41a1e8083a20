// Package interval models the time extent of a booking as a half-open range
// of minutes since midnight on a single calendar day.
package interval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds every interval to one calendar day.
const MinutesPerDay = 24 * 60

// ErrInvalidInterval is returned when an interval cannot be constructed from
// the supplied start and duration.
var ErrInvalidInterval = errors.New("interval: invalid interval")

// Interval is the half-open range [Start, End) expressed in minutes since
// midnight. End is always derived from start plus duration and never stored
// independently by callers.
type Interval struct {
	Start int
	End   int
}

// New constructs an interval from a start offset and a duration in minutes.
// Durations must be positive and the interval must fit within a single day.
func New(startMinutes, durationMinutes int) (Interval, error) {
	if durationMinutes <= 0 {
		return Interval{}, fmt.Errorf("%w: duration %d must be positive", ErrInvalidInterval, durationMinutes)
	}
	if startMinutes < 0 || startMinutes >= MinutesPerDay {
		return Interval{}, fmt.Errorf("%w: start %d outside 0-%d", ErrInvalidInterval, startMinutes, MinutesPerDay)
	}
	end := startMinutes + durationMinutes
	if end > MinutesPerDay {
		return Interval{}, fmt.Errorf("%w: end %d exceeds %d", ErrInvalidInterval, end, MinutesPerDay)
	}
	return Interval{Start: startMinutes, End: end}, nil
}

// FromWallClock constructs an interval from an HH:MM start time and a
// duration in minutes.
func FromWallClock(startTime string, durationMinutes int) (Interval, error) {
	start, err := ParseWallClock(startTime)
	if err != nil {
		return Interval{}, err
	}
	return New(start, durationMinutes)
}

// ParseWallClock converts an HH:MM string into minutes since midnight.
func ParseWallClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: malformed time %q", ErrInvalidInterval, value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: malformed time %q", ErrInvalidInterval, value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: malformed time %q", ErrInvalidInterval, value)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: time %q outside 00:00-23:59", ErrInvalidInterval, value)
	}
	return hours*60 + minutes, nil
}

// FormatWallClock renders minutes since midnight as HH:MM.
func FormatWallClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration reports the interval length in minutes.
func (i Interval) Duration() int {
	return i.End - i.Start
}

// Overlaps reports whether two intervals share at least one minute. The
// comparison is strict half-open: back-to-back intervals where one ends
// exactly when the other starts do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// String renders the interval in wall-clock form for logs and errors.
func (i Interval) String() string {
	return FormatWallClock(i.Start) + "-" + FormatWallClock(i.End)
}
