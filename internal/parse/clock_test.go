package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"booking-scheduler-backend/internal/model"
)

func TestClock(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  model.Clock
		expectErr bool
	}{
		{name: "Zero padded", raw: "09:30", expected: model.NewClock(9, 30)},
		{name: "Single digit hour", raw: "9:30", expected: model.NewClock(9, 30)},
		{name: "Midnight", raw: "00:00", expected: 0},
		{name: "Last minute", raw: "23:59", expected: model.NewClock(23, 59)},
		{name: "Surrounding spaces", raw: " 14:05 ", expected: model.NewClock(14, 5)},
		{name: "Hour out of range", raw: "24:00", expectErr: true},
		{name: "Minute out of range", raw: "10:60", expectErr: true},
		{name: "Single digit minute", raw: "10:5", expectErr: true},
		{name: "Seconds not allowed", raw: "10:00:00", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Garbage", raw: "noon", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Clock(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestDate(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "Calendar day", raw: "2030-05-17", expected: "2030-05-17"},
		{name: "UTC timestamp", raw: "2030-05-17T00:00:00.000Z", expected: "2030-05-17"},
		{name: "Offset timestamp keeps its own day", raw: "2030-05-17T23:30:00-07:00", expected: "2030-05-17"},
		{name: "Impossible day", raw: "2030-02-30", expectErr: true},
		{name: "Wrong order", raw: "17-05-2030", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Date(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestDayAndClockOf(t *testing.T) {
	ts := time.Date(2030, 5, 17, 8, 45, 12, 0, time.UTC)
	assert.Equal(t, "2030-05-17", DayOf(ts))
	assert.Equal(t, model.NewClock(8, 45), ClockOf(ts))
}
