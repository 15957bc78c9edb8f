package store

import (
	"context"
	"errors"
	"fmt"

	"booking-scheduler-backend/internal/model"
)

// ListNonCancelledBookings returns confirmed and pending bookings of a link
// on one date, ordered by start time.
func (s *gormStore) ListNonCancelledBookings(ctx context.Context, linkPK int64, date string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Where("booking_link_id = ? AND date = ? AND status <> ?", linkPK, date, model.BookingCancelled).
		Order("start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// InsertBookingIfNoOverlap inserts b unless a non-cancelled booking of the
// same link and date intersects it. The link row is locked for the check
// and insert, so concurrent callers for one link are serialized; on
// postgres the optional exclusion constraint backs this up.
func (s *gormStore) InsertBookingIfNoOverlap(ctx context.Context, b *model.Booking) error {
	return s.atomic(ctx, func(tx *gormStore) error {
		var link model.BookingLink
		if err := forUpdate(tx.db.WithContext(ctx)).Select("id").Take(&link, b.BookingLinkID).Error; err != nil {
			return notFound(err, ErrLinkNotFound)
		}

		var count int64
		err := tx.db.WithContext(ctx).
			Model(&model.Booking{}).
			Where("booking_link_id = ? AND date = ? AND status <> ?", b.BookingLinkID, b.Date, model.BookingCancelled).
			Where("start_time < ? AND end_time > ?", b.EndTime, b.StartTime).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check booking overlap: %w", err)
		}
		if count > 0 {
			return ErrSlotAlreadyBooked
		}

		if b.Status == "" {
			b.Status = model.BookingConfirmed
		}
		if err := tx.db.WithContext(ctx).Omit("BookingLink").Create(b).Error; err != nil {
			if isExclusionViolation(err) {
				return ErrSlotAlreadyBooked
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

// ListBookingsForHost returns bookings across all of the host's links,
// latest date first, with their link loaded.
func (s *gormStore) ListBookingsForHost(ctx context.Context, hostID int64) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Joins("BookingLink").
		Where(`"BookingLink"."host_id" = ?`, hostID).
		Order("bookings.date DESC").Order("bookings.start_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list host bookings: %w", err)
	}
	return bookings, nil
}

// GetBooking returns a booking with its link and host loaded.
func (s *gormStore) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).Preload("BookingLink.Host").Take(&b, id).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &b, nil
}

// GetBookingForHost returns a booking only if one of the host's links owns it.
func (s *gormStore) GetBookingForHost(ctx context.Context, hostID, id int64) (*model.Booking, error) {
	var b model.Booking
	err := s.db.WithContext(ctx).
		Joins("BookingLink").
		Where(`bookings.id = ? AND "BookingLink"."host_id" = ?`, id, hostID).
		Take(&b).Error
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &b, nil
}

// TransitionBooking moves a booking from one status to another. It fails
// with ErrStatusChanged if the booking is no longer in the from status.
func (s *gormStore) TransitionBooking(ctx context.Context, id int64, from, to model.BookingStatus) error {
	res := s.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errors.Join(ErrStatusChanged, err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrStatusChanged
	}
	return nil
}
