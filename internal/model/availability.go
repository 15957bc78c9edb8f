package model

import "time"

// AvailabilityWindow is a host-declared open interval [StartTime, EndTime)
// on a single calendar Date (YYYY-MM-DD).
type AvailabilityWindow struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	HostID    int64     `gorm:"not null;index:idx_window_host_date" json:"host_id"`
	Date      string    `gorm:"size:10;not null;index:idx_window_host_date" json:"date"`
	StartTime Clock     `gorm:"not null" json:"start_time"`
	EndTime   Clock     `gorm:"not null" json:"end_time"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Host Host `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
