package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"booking-scheduler-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Transaction runs fn against a transaction-scoped Store. Calls on a
	// Store that is already transactional run inline.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateHost(ctx context.Context, h *model.Host) error
	GetHost(ctx context.Context, id int64) (*model.Host, error)
	GetHostByEmail(ctx context.Context, email string) (*model.Host, error)

	CreateLink(ctx context.Context, l *model.BookingLink) error
	ResolveLink(ctx context.Context, linkID string) (*model.BookingLink, error)
	LockLink(ctx context.Context, linkID string) (*model.BookingLink, error)
	ListLinksForHost(ctx context.Context, hostID int64) ([]model.BookingLink, error)
	DeactivateLink(ctx context.Context, hostID int64, linkID string) error

	ListActiveWindows(ctx context.Context, hostID int64, date string) ([]model.AvailabilityWindow, error)
	ListWindowsForHost(ctx context.Context, hostID int64, filter WindowFilter) ([]model.AvailabilityWindow, error)
	InsertWindow(ctx context.Context, w *model.AvailabilityWindow) error
	UpdateWindow(ctx context.Context, w *model.AvailabilityWindow) error
	DeleteWindow(ctx context.Context, hostID, id int64) error

	ListNonCancelledBookings(ctx context.Context, linkPK int64, date string) ([]model.Booking, error)
	InsertBookingIfNoOverlap(ctx context.Context, b *model.Booking) error
	ListBookingsForHost(ctx context.Context, hostID int64) ([]model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	GetBookingForHost(ctx context.Context, hostID, id int64) (*model.Booking, error)
	TransitionBooking(ctx context.Context, id int64, from, to model.BookingStatus) error

	SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeletePushSubscription(ctx context.Context, hostID int64, endpoint string) error
	ExpirePushSubscription(ctx context.Context, endpoint string) error
	ListPushSubscriptions(ctx context.Context, hostID int64) ([]model.PushSubscription, error)
}

// WindowFilter narrows ListWindowsForHost.
type WindowFilter struct {
	Date       string // exact day, optional
	FromDate   string // inclusive lower bound, optional
	ActiveOnly bool
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db   *gorm.DB
	inTx bool
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.atomic(ctx, func(tx *gormStore) error { return fn(tx) })
}

// atomic runs fn in a transaction unless s already is one, so composite
// operations never open savepoints.
func (s *gormStore) atomic(ctx context.Context, fn func(tx *gormStore) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, inTx: true})
	})
}

// forUpdate adds a row lock. SQLite drops the clause and relies on its
// single-writer transactions instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
