package scheduling

import (
	"context"

	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/parse"
	"booking-scheduler-backend/internal/slot"
	"booking-scheduler-backend/internal/store"
	"booking-scheduler-backend/internal/validate"
)

// WindowInput is a raw availability window submission.
type WindowInput struct {
	Date      string
	StartTime string
	EndTime   string
	Active    *bool
}

// CreateWindow validates and stores a new active window for the host.
func (s *Service) CreateWindow(ctx context.Context, hostID int64, in WindowInput) (*model.AvailabilityWindow, error) {
	today, _ := s.today()
	iv, err := validate.Window(in.Date, in.StartTime, in.EndTime, today)
	if err != nil {
		return nil, err
	}

	w := &model.AvailabilityWindow{
		HostID:    hostID,
		Date:      iv.Date,
		StartTime: iv.Start,
		EndTime:   iv.End,
		Active:    true,
	}
	if err := s.store.InsertWindow(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWindow replaces date, start and end of one of the host's windows.
// Active is kept unless the input sets it.
func (s *Service) UpdateWindow(ctx context.Context, hostID, id int64, in WindowInput) (*model.AvailabilityWindow, error) {
	today, _ := s.today()
	iv, err := validate.Window(in.Date, in.StartTime, in.EndTime, today)
	if err != nil {
		return nil, err
	}

	w := &model.AvailabilityWindow{
		ID:        id,
		HostID:    hostID,
		Date:      iv.Date,
		StartTime: iv.Start,
		EndTime:   iv.End,
		Active:    true,
	}
	if in.Active != nil {
		w.Active = *in.Active
	}
	if err := s.store.UpdateWindow(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWindow removes one of the host's windows.
func (s *Service) DeleteWindow(ctx context.Context, hostID, id int64) error {
	return s.store.DeleteWindow(ctx, hostID, id)
}

// ListWindows returns the host's active windows. With a date only that day
// is listed; otherwise every window from today onward unless includePast.
func (s *Service) ListWindows(ctx context.Context, hostID int64, rawDate string, includePast bool) ([]model.AvailabilityWindow, error) {
	filter := store.WindowFilter{ActiveOnly: true}
	if rawDate != "" {
		date, err := parse.Date(rawDate)
		if err != nil {
			return nil, validate.Errorf("date", "%s", err.Error())
		}
		filter.Date = date
	} else if !includePast {
		filter.FromDate, _ = s.today()
	}
	return s.store.ListWindowsForHost(ctx, hostID, filter)
}

// AvailableSlots resolves the open slots of a public link on one date.
// Past dates have none; on the current day slots that already started are
// dropped after resolution.
func (s *Service) AvailableSlots(ctx context.Context, linkID, rawDate string) (string, []slot.Slot, error) {
	date, err := parse.Date(rawDate)
	if err != nil {
		return "", nil, validate.Errorf("date", "%s", err.Error())
	}

	link, err := s.store.ResolveLink(ctx, linkID)
	if err != nil {
		return "", nil, err
	}

	today, elapsed := s.today()
	if date < today {
		return date, []slot.Slot{}, nil
	}

	windows, err := s.store.ListActiveWindows(ctx, link.HostID, date)
	if err != nil {
		return "", nil, err
	}
	bookings, err := s.store.ListNonCancelledBookings(ctx, link.ID, date)
	if err != nil {
		return "", nil, err
	}

	slots := slot.Resolve(windows, bookings, s.granularity)
	if date == today {
		slots = slot.StartingAtOrAfter(slots, elapsed)
	}
	return date, slots, nil
}
