// Package testutil builds throwaway SQLite databases for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"booking-scheduler-backend/config"
	"booking-scheduler-backend/internal/db"
	"booking-scheduler-backend/internal/model"
)

// NewDB returns a migrated, private in-memory SQLite database. A single
// connection keeps the memory database alive and serializes transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_txlock=immediate", uuid.NewString())
	gormDB, err := db.Open(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return gormDB
}

// SeedHost inserts a host with a throwaway password hash.
func SeedHost(t testing.TB, gormDB *gorm.DB, email string) *model.Host {
	t.Helper()
	h := &model.Host{Name: "Host " + email, Email: email, PasswordHash: "x"}
	require.NoError(t, gormDB.Create(h).Error)
	return h
}

// SeedLink inserts an active booking link for the host.
func SeedLink(t testing.TB, gormDB *gorm.DB, hostID int64, linkID string) *model.BookingLink {
	t.Helper()
	l := &model.BookingLink{HostID: hostID, LinkID: linkID, Title: "Intro call", Active: true}
	require.NoError(t, gormDB.Omit("Host").Create(l).Error)
	return l
}

// SeedWindow inserts an active window.
func SeedWindow(t testing.TB, gormDB *gorm.DB, hostID int64, date string, start, end model.Clock) *model.AvailabilityWindow {
	t.Helper()
	w := &model.AvailabilityWindow{HostID: hostID, Date: date, StartTime: start, EndTime: end, Active: true}
	require.NoError(t, gormDB.Omit("Host").Create(w).Error)
	return w
}

// SeedBooking inserts a booking with the given status.
func SeedBooking(t testing.TB, gormDB *gorm.DB, linkPK int64, date string, start, end model.Clock, status model.BookingStatus) *model.Booking {
	t.Helper()
	b := &model.Booking{
		BookingLinkID: linkPK,
		VisitorName:   "Visitor",
		VisitorEmail:  "visitor@example.com",
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		Status:        status,
	}
	require.NoError(t, gormDB.Omit("BookingLink").Create(b).Error)
	return b
}
