package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// newBookingRef generates the human-readable booking code, "BOOK" followed
// by six digits.
func newBookingRef() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing means the process is in serious trouble;
		// fall back to a time-derived code rather than aborting the booking.
		return fmt.Sprintf("BOOK%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("BOOK%06d", n.Int64())
}

// slotKeyFor builds the admission key that the unique sparse index guards.
func slotKeyFor(pointID, date, startTime string) string {
	return pointID + "|" + date + "|" + startTime
}

// bookingStartAt resolves a booking's date and start time to an instant.
func bookingStartAt(date, startTime string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+startTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking time %q %q: %w", date, startTime, err)
	}
	return t, nil
}

// To24Hour converts a "3:04 PM" style clock to "15:04". Inputs already in
// 24-hour form pass through unchanged.
func To24Hour(clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	upper := strings.ToUpper(clock)
	isPM := strings.HasSuffix(upper, "PM")
	isAM := strings.HasSuffix(upper, "AM")
	if !isPM && !isAM {
		if _, err := ParseClock(clock); err != nil {
			return "", err
		}
		return clock, nil
	}

	trimmed := strings.TrimSpace(upper[:len(upper)-2])
	minutes, err := ParseClock(trimmed)
	if err != nil {
		return "", err
	}
	hours := minutes / 60
	if isPM && hours != 12 {
		hours += 12
	}
	if isAM && hours == 12 {
		hours = 0
	}
	return FormatClock(hours*60 + minutes%60), nil
}

// validDate checks the "2006-01-02" calendar date format.
func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
