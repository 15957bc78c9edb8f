package scheduling

import (
	"context"

	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/validate"
)

// CreateLink issues a new public booking link for the host.
func (s *Service) CreateLink(ctx context.Context, hostID int64, title, description string) (*model.BookingLink, error) {
	title, description, err := validate.Link(title, description)
	if err != nil {
		return nil, err
	}
	l := &model.BookingLink{HostID: hostID, Title: title, Description: description}
	if err := s.store.CreateLink(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListLinks returns the host's active links, newest first.
func (s *Service) ListLinks(ctx context.Context, hostID int64) ([]model.BookingLink, error) {
	return s.store.ListLinksForHost(ctx, hostID)
}

// ResolveLink returns an active link with its host.
func (s *Service) ResolveLink(ctx context.Context, linkID string) (*model.BookingLink, error) {
	return s.store.ResolveLink(ctx, linkID)
}

// DeactivateLink hides a link from visitors.
func (s *Service) DeactivateLink(ctx context.Context, hostID int64, linkID string) error {
	return s.store.DeactivateLink(ctx, hostID, linkID)
}
