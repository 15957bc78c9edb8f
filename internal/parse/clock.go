package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"booking-scheduler-backend/internal/model"
)

var (
	clockRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// DateLayout is the canonical calendar-day format.
const DateLayout = "2006-01-02"

// Clock parses a 24-hour "HH:MM" value. A single-digit hour is accepted
// and normalized, so "9:05" and "09:05" are the same clock.
func Clock(raw string) (model.Clock, error) {
	s := strings.TrimSpace(raw)
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("time %q must be in HH:MM format", raw)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return model.NewClock(hour, minute), nil
}

// Date parses a calendar day. It accepts "YYYY-MM-DD" or an RFC3339
// timestamp, in which case the date part in the timestamp's own offset is
// used. The result is always in canonical "YYYY-MM-DD" form.
func Date(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if dateRe.MatchString(s) {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return "", fmt.Errorf("date %q is not a valid calendar day", raw)
		}
		return d.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", fmt.Errorf("date %q must be YYYY-MM-DD or an ISO-8601 timestamp", raw)
}

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ClockOf returns the wall-clock time of t in t's location.
func ClockOf(t time.Time) model.Clock {
	return model.NewClock(t.Hour(), t.Minute())
}
