package booking

import (
	"fmt"
	"strconv"
	"strings"

	"evcharge/models"
)

// Interval is a half-open [Start, End) time window in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// ParseClock parses an "HH:MM" 24-hour string into minutes from midnight.
// "24:00" is accepted as minute 1440 so end times can land on midnight.
func ParseClock(clock string) (int, error) {
	if clock == "24:00" {
		return 24 * 60, nil
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether two half-open intervals intersect. Touching
// boundaries (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// ConflictsWithAny reports whether the candidate interval overlaps any of the
// existing intervals.
func ConflictsWithAny(candidate Interval, existing []Interval) bool {
	for _, iv := range existing {
		if Overlaps(candidate, iv) {
			return true
		}
	}
	return false
}

// intervalOf extracts a booking's reserved interval, falling back to the
// duration when the stored end time is absent.
func intervalOf(b models.Booking) (Interval, error) {
	start, err := ParseClock(b.StartTime)
	if err != nil {
		return Interval{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	if b.EndTime != "" {
		end, err := ParseClock(b.EndTime)
		if err != nil {
			return Interval{}, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		return Interval{Start: start, End: end}, nil
	}
	return Interval{Start: start, End: start + b.Duration}, nil
}

// admittedIntervals converts the admitted bookings of a point/date into
// conflict-check intervals.
func admittedIntervals(bookings []models.Booking) ([]Interval, error) {
	intervals := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		iv, err := intervalOf(b)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

// candidateInterval validates and builds the interval for a reservation
// request. Zero and negative durations are rejected here, before the
// conflict check ever runs.
func candidateInterval(startTime string, duration int) (Interval, error) {
	if duration <= 0 {
		return Interval{}, NewValidationError("duration must be positive, got %d", duration)
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return Interval{}, NewValidationError("invalid start time: %v", err)
	}
	end := start + duration
	if end > 24*60 {
		return Interval{}, NewValidationError("booking window must end within the same day")
	}
	return Interval{Start: start, End: end}, nil
}
