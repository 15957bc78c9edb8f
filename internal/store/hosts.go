package store

import (
	"context"
	"fmt"

	"booking-scheduler-backend/internal/model"
)

// CreateHost inserts a new host, failing with ErrEmailTaken on a duplicate email.
func (s *gormStore) CreateHost(ctx context.Context, h *model.Host) error {
	return s.atomic(ctx, func(tx *gormStore) error {
		var count int64
		if err := tx.db.WithContext(ctx).Model(&model.Host{}).Where("email = ?", h.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.db.WithContext(ctx).Create(h).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create host: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetHost(ctx context.Context, id int64) (*model.Host, error) {
	var h model.Host
	if err := s.db.WithContext(ctx).Take(&h, id).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &h, nil
}

func (s *gormStore) GetHostByEmail(ctx context.Context, email string) (*model.Host, error) {
	var h model.Host
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&h).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &h, nil
}

// lockHost serializes availability writes for one host.
func (s *gormStore) lockHost(ctx context.Context, hostID int64) error {
	var h model.Host
	if err := forUpdate(s.db.WithContext(ctx)).Select("id").Take(&h, hostID).Error; err != nil {
		return notFound(err, ErrNotFound)
	}
	return nil
}
