package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingPending   BookingStatus = "pending"
)

// Booking is a visitor reservation of [StartTime, EndTime) on Date against a link.
type Booking struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	BookingLinkID int64         `gorm:"not null;index:idx_booking_link_date" json:"-"`
	VisitorName   string        `gorm:"size:100;not null" json:"visitor_name"`
	VisitorEmail  string        `gorm:"size:254;not null;index" json:"visitor_email"`
	Date          string        `gorm:"size:10;not null;index:idx_booking_link_date" json:"date"`
	StartTime     Clock         `gorm:"not null" json:"start_time"`
	EndTime       Clock         `gorm:"not null" json:"end_time"`
	Status        BookingStatus `gorm:"size:16;not null;default:confirmed;index" json:"status"`
	Notes         string        `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`

	// Associations
	BookingLink BookingLink `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
