package store

import (
	"context"
	"fmt"

	"booking-scheduler-backend/internal/model"
)

// ListActiveWindows returns the host's active windows for one date,
// ordered by start time.
func (s *gormStore) ListActiveWindows(ctx context.Context, hostID int64, date string) ([]model.AvailabilityWindow, error) {
	var windows []model.AvailabilityWindow
	err := s.db.WithContext(ctx).
		Where("host_id = ? AND date = ? AND active = ?", hostID, date, true).
		Order("start_time").Order("id").
		Find(&windows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list availability windows: %w", err)
	}
	return windows, nil
}

func (s *gormStore) ListWindowsForHost(ctx context.Context, hostID int64, filter WindowFilter) ([]model.AvailabilityWindow, error) {
	q := s.db.WithContext(ctx).Where("host_id = ?", hostID)
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.FromDate != "" {
		q = q.Where("date >= ?", filter.FromDate)
	}
	if filter.ActiveOnly {
		q = q.Where("active = ?", true)
	}

	var windows []model.AvailabilityWindow
	if err := q.Order("date").Order("start_time").Order("id").Find(&windows).Error; err != nil {
		return nil, fmt.Errorf("failed to list availability windows: %w", err)
	}
	return windows, nil
}

// hasOverlappingWindow checks for another active window of the host on the
// same date intersecting [start, end). excludeID skips the window being updated.
func (s *gormStore) hasOverlappingWindow(ctx context.Context, w *model.AvailabilityWindow) (bool, error) {
	q := s.db.WithContext(ctx).
		Model(&model.AvailabilityWindow{}).
		Where("host_id = ? AND date = ? AND active = ?", w.HostID, w.Date, true).
		Where("start_time < ? AND end_time > ?", w.EndTime, w.StartTime)
	if w.ID != 0 {
		q = q.Where("id <> ?", w.ID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check window overlap: %w", err)
	}
	return count > 0, nil
}

// InsertWindow creates an active window, failing with ErrWindowOverlap.
func (s *gormStore) InsertWindow(ctx context.Context, w *model.AvailabilityWindow) error {
	w.ID = 0
	w.Active = true
	return s.atomic(ctx, func(tx *gormStore) error {
		if err := tx.lockHost(ctx, w.HostID); err != nil {
			return err
		}
		overlap, err := tx.hasOverlappingWindow(ctx, w)
		if err != nil {
			return err
		}
		if overlap {
			return ErrWindowOverlap
		}
		if err := tx.db.WithContext(ctx).Create(w).Error; err != nil {
			return fmt.Errorf("failed to create availability window: %w", err)
		}
		return nil
	})
}

// UpdateWindow fully replaces date, start, end and active of one of the
// host's windows. The overlap check only applies when the result is active.
func (s *gormStore) UpdateWindow(ctx context.Context, w *model.AvailabilityWindow) error {
	return s.atomic(ctx, func(tx *gormStore) error {
		if err := tx.lockHost(ctx, w.HostID); err != nil {
			return err
		}

		var existing model.AvailabilityWindow
		if err := tx.db.WithContext(ctx).Where("id = ? AND host_id = ?", w.ID, w.HostID).Take(&existing).Error; err != nil {
			return notFound(err, ErrNotFound)
		}

		if w.Active {
			overlap, err := tx.hasOverlappingWindow(ctx, w)
			if err != nil {
				return err
			}
			if overlap {
				return ErrWindowOverlap
			}
		}

		existing.Date = w.Date
		existing.StartTime = w.StartTime
		existing.EndTime = w.EndTime
		existing.Active = w.Active
		if err := tx.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update availability window: %w", err)
		}
		*w = existing
		return nil
	})
}

// DeleteWindow hard-deletes one of the host's windows.
func (s *gormStore) DeleteWindow(ctx context.Context, hostID, id int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND host_id = ?", id, hostID).
		Delete(&model.AvailabilityWindow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete availability window: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
