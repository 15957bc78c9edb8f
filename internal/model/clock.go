package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MinutesPerDay bounds a Clock value.
const MinutesPerDay = 24 * 60

// Clock is a wall-clock time of day stored as minutes since midnight.
// It has no date and no timezone. JSON form is "HH:MM".
type Clock int

// NewClock builds a Clock from an hour and minute.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// Add returns c shifted by d, truncated to whole minutes.
func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Minute)
}

// Valid reports whether c lies within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < MinutesPerDay
}

// String formats c as zero-padded "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// MarshalJSON encodes c as an "HH:MM" string.
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a strict "HH:MM" string.
func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return fmt.Errorf("invalid clock value %q", s)
	}
	parsed := NewClock(t.Hour(), t.Minute())
	*c = parsed
	return nil
}

// GormDataType stores clocks as plain integers.
func (Clock) GormDataType() string {
	return "int"
}

// Value implements driver.Valuer.
func (c Clock) Value() (driver.Value, error) {
	return int64(c), nil
}

// Scan implements sql.Scanner.
func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*c = Clock(v)
	case int32:
		*c = Clock(v)
	case int:
		*c = Clock(v)
	case []byte:
		var n int
		if _, err := fmt.Sscan(string(v), &n); err != nil {
			return fmt.Errorf("scan clock: %w", err)
		}
		*c = Clock(n)
	case nil:
		*c = 0
	default:
		return fmt.Errorf("scan clock: unsupported type %T", src)
	}
	if !c.Valid() {
		return fmt.Errorf("scan clock: %d minutes is outside a day", int(*c))
	}
	return nil
}
