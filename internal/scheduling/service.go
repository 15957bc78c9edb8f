// Package scheduling composes the store, validation and slot resolution into
// the operations hosts and visitors perform.
package scheduling

import (
	"errors"
	"time"

	"github.com/jinzhu/now"

	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/parse"
	"booking-scheduler-backend/internal/slot"
	"booking-scheduler-backend/internal/store"
)

var (
	// ErrSlotNotAvailable is returned when a requested interval is not
	// fully inside one of the host's active windows.
	ErrSlotNotAvailable = errors.New("requested time is not within the host's availability")

	ErrLinkNotFound      = store.ErrLinkNotFound
	ErrWindowOverlap     = store.ErrWindowOverlap
	ErrSlotAlreadyBooked = store.ErrSlotAlreadyBooked
	ErrNotFound          = store.ErrNotFound
)

// Notifier is told about every admitted booking. It must not block.
type Notifier interface {
	BookingAdmitted(bookingID int64)
}

// Service implements availability, link and booking operations.
type Service struct {
	store       store.Store
	granularity time.Duration
	clock       func() time.Time
	notifier    Notifier
}

// Option configures a Service.
type Option func(*Service)

// WithGranularity sets the slot width.
func WithGranularity(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.granularity = d
		}
	}
}

// WithClock overrides the wall clock used for freshness checks.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithNotifier registers a listener for admitted bookings.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a scheduling service backed by st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:       st,
		granularity: slot.DefaultGranularity,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today returns the current calendar day and the wall-clock reading in
// the clock's location.
func (s *Service) today() (string, model.Clock) {
	t := s.clock()
	return parse.DayOf(now.With(t).BeginningOfDay()), parse.ClockOf(t)
}
