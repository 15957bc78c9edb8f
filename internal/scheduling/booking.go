package scheduling

import (
	"context"
	"errors"
	"log"

	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/slot"
	"booking-scheduler-backend/internal/store"
	"booking-scheduler-backend/internal/validate"
)

// Admit validates a visitor request and commits it as a confirmed booking.
// Link, window and overlap checks all run again inside one transaction that
// holds the link's row lock, so two overlapping requests can never both win.
func (s *Service) Admit(ctx context.Context, linkID string, in validate.BookingInput) (*model.Booking, error) {
	today, elapsed := s.today()
	req, err := validate.Booking(in, today)
	if err != nil {
		return nil, err
	}
	if req.Date == today && req.Start < elapsed {
		return nil, validate.Errorf("start_time", "start time has already passed")
	}

	var booking *model.Booking
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		link, err := tx.LockLink(ctx, linkID)
		if err != nil {
			return err
		}

		windows, err := tx.ListActiveWindows(ctx, link.HostID, req.Date)
		if err != nil {
			return err
		}
		if !withinAnyWindow(windows, req.Start, req.End) {
			return ErrSlotNotAvailable
		}

		b := &model.Booking{
			BookingLinkID: link.ID,
			VisitorName:   req.VisitorName,
			VisitorEmail:  req.VisitorEmail,
			Date:          req.Date,
			StartTime:     req.Start,
			EndTime:       req.End,
			Status:        model.BookingConfirmed,
			Notes:         req.Notes,
		}
		if err := tx.InsertBookingIfNoOverlap(ctx, b); err != nil {
			return err
		}
		b.BookingLink = *link
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BookingAdmitted(booking.ID)
	}
	return booking, nil
}

func withinAnyWindow(windows []model.AvailabilityWindow, start, end model.Clock) bool {
	for _, w := range windows {
		if slot.Contains(w.StartTime, w.EndTime, start, end) {
			return true
		}
	}
	return false
}

// Cancel moves one of the host's bookings to cancelled. Cancelled bookings
// stay cancelled.
func (s *Service) Cancel(ctx context.Context, hostID, bookingID int64) (*model.Booking, error) {
	b, err := s.store.GetBookingForHost(ctx, hostID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingCancelled {
		return nil, validate.Errorf("status", "booking is already cancelled")
	}

	if err := s.store.TransitionBooking(ctx, b.ID, b.Status, model.BookingCancelled); err != nil {
		if errors.Is(err, store.ErrStatusChanged) {
			log.Printf("booking %d changed status while cancelling", b.ID)
		}
		return nil, err
	}
	b.Status = model.BookingCancelled
	return b, nil
}

// ListBookings returns every booking across the host's links.
func (s *Service) ListBookings(ctx context.Context, hostID int64) ([]model.Booking, error) {
	return s.store.ListBookingsForHost(ctx, hostID)
}
