package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a looked-up entity does not exist or is
	// not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrLinkNotFound is returned when a public link id is unknown or inactive.
	ErrLinkNotFound = errors.New("booking link not found")
	// ErrWindowOverlap is returned when a window would overlap another
	// active window of the same host on the same date.
	ErrWindowOverlap = errors.New("availability window overlaps an existing window")
	// ErrSlotAlreadyBooked is returned when a booking would overlap a
	// non-cancelled booking for the same link and date.
	ErrSlotAlreadyBooked = errors.New("time slot is already booked")
	// ErrEmailTaken is returned when registering an email that is in use.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrStatusChanged is returned when a conditional status update lost
	// a race with another writer.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func notFound(err, as error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return as
	}
	return err
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isExclusionViolation(err error) bool {
	return pgCode(err) == pgExclusionViolation
}
