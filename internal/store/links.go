package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"booking-scheduler-backend/internal/model"
)

// CreateLink assigns a fresh public link id and inserts the link as active.
func (s *gormStore) CreateLink(ctx context.Context, l *model.BookingLink) error {
	l.LinkID = uuid.NewString()
	l.Active = true
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("failed to create booking link: %w", err)
	}
	return nil
}

// ResolveLink returns the active link with its host, or ErrLinkNotFound.
func (s *gormStore) ResolveLink(ctx context.Context, linkID string) (*model.BookingLink, error) {
	var l model.BookingLink
	err := s.db.WithContext(ctx).
		Preload("Host").
		Where("link_id = ? AND active = ?", linkID, true).
		Take(&l).Error
	if err != nil {
		return nil, notFound(err, ErrLinkNotFound)
	}
	return &l, nil
}

// LockLink is ResolveLink under a row lock; bookings against the link are
// serialized until the surrounding transaction ends.
func (s *gormStore) LockLink(ctx context.Context, linkID string) (*model.BookingLink, error) {
	var l model.BookingLink
	err := forUpdate(s.db.WithContext(ctx)).
		Where("link_id = ? AND active = ?", linkID, true).
		Take(&l).Error
	if err != nil {
		return nil, notFound(err, ErrLinkNotFound)
	}
	return &l, nil
}

// ListLinksForHost returns the host's active links, newest first.
func (s *gormStore) ListLinksForHost(ctx context.Context, hostID int64) ([]model.BookingLink, error) {
	var links []model.BookingLink
	err := s.db.WithContext(ctx).
		Where("host_id = ? AND active = ?", hostID, true).
		Order("created_at DESC").Order("id DESC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list booking links: %w", err)
	}
	return links, nil
}

// DeactivateLink soft-deletes one of the host's links.
func (s *gormStore) DeactivateLink(ctx context.Context, hostID int64, linkID string) error {
	res := s.db.WithContext(ctx).
		Model(&model.BookingLink{}).
		Where("link_id = ? AND host_id = ? AND active = ?", linkID, hostID, true).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate booking link: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}
