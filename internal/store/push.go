package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"booking-scheduler-backend/internal/model"
)

// SavePushSubscription creates or replaces a subscription by endpoint.
func (s *gormStore) SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Omit("Host").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"host_id", "p256dh", "auth"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("failed to save push subscription: %w", err)
	}
	return nil
}

func (s *gormStore) DeletePushSubscription(ctx context.Context, hostID int64, endpoint string) error {
	res := s.db.WithContext(ctx).
		Where("endpoint = ? AND host_id = ?", endpoint, hostID).
		Delete(&model.PushSubscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete push subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpirePushSubscription removes a subscription the push service reported gone.
func (s *gormStore) ExpirePushSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{}).Error; err != nil {
		return fmt.Errorf("failed to delete expired push subscription: %w", err)
	}
	return nil
}

func (s *gormStore) ListPushSubscriptions(ctx context.Context, hostID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("host_id = ?", hostID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list push subscriptions: %w", err)
	}
	return subs, nil
}
