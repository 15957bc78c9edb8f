package model

import "time"

// PushSubscription holds a host's browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	HostID    int64     `gorm:"index;not null"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Host Host `gorm:"constraint:OnDelete:CASCADE"`
}
