package model

import "time"

// DefaultLinkTitle is used when a host creates a link without a title.
const DefaultLinkTitle = "My Booking Link"

// BookingLink is a public, host-owned entry point for visitors.
type BookingLink struct {
	ID          int64     `gorm:"primaryKey" json:"-"`
	HostID      int64     `gorm:"index;not null" json:"host_id"`
	LinkID      string    `gorm:"uniqueIndex;size:36;not null" json:"link_id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Host Host `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
