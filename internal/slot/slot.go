// Package slot turns availability windows and existing bookings into the
// fixed-width time slots that are still open for booking.
package slot

import (
	"time"

	"booking-scheduler-backend/internal/model"
)

// DefaultGranularity is the width of every slot unless configured otherwise.
const DefaultGranularity = 30 * time.Minute

// Slot is a candidate booking interval [Start, End). It is never persisted.
type Slot struct {
	Start model.Clock `json:"start_time"`
	End   model.Clock `json:"end_time"`
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one minute. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd model.Clock) bool {
	return aStart < bEnd && aEnd > bStart
}

// Contains reports whether [outerStart, outerEnd) fully covers [start, end).
func Contains(outerStart, outerEnd, start, end model.Clock) bool {
	return outerStart <= start && end <= outerEnd
}

// Resolve partitions each window into consecutive slots of the given
// granularity starting exactly at the window's start, drops a trailing
// partial slot, and keeps only slots that overlap no booking.
//
// Windows are expected to be sorted by start time already; output follows
// window order and is not re-sorted or de-duplicated, so overlapping windows
// yield repeated slots. The result is never nil.
func Resolve(windows []model.AvailabilityWindow, bookings []model.Booking, granularity time.Duration) []Slot {
	slots := make([]Slot, 0)
	if granularity < time.Minute {
		return slots
	}

	for _, w := range windows {
		for start := w.StartTime; start.Add(granularity) <= w.EndTime; start = start.Add(granularity) {
			end := start.Add(granularity)
			if !bookedDuring(bookings, start, end) {
				slots = append(slots, Slot{Start: start, End: end})
			}
		}
	}
	return slots
}

func bookedDuring(bookings []model.Booking, start, end model.Clock) bool {
	for _, b := range bookings {
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

// StartingAtOrAfter drops slots that start before cutoff.
func StartingAtOrAfter(slots []Slot, cutoff model.Clock) []Slot {
	kept := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Start >= cutoff {
			kept = append(kept, s)
		}
	}
	return kept
}
