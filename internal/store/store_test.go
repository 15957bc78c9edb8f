package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"booking-scheduler-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_InsertBookingIfNoOverlap_SQL(t *testing.T) {
	newBooking := func() *model.Booking {
		return &model.Booking{
			BookingLinkID: 7,
			VisitorName:   "Ada",
			VisitorEmail:  "ada@example.com",
			Date:          "2030-01-07",
			StartTime:     model.NewClock(9, 0),
			EndTime:       model.NewClock(9, 30),
		}
	}

	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      error
		expectedID       int64
	}{
		{
			name: "Free interval is inserted under the link lock",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "id" FROM "booking_links" WHERE .* FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
				mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE .*booking_link_id = \$1 AND date = \$2 AND status <> \$3.*start_time < \$4 AND end_time > \$5`).
					WithArgs(7, "2030-01-07", model.BookingCancelled, int64(570), int64(540)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "bookings"`)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
				mock.ExpectCommit()
			},
			expectedID: 42,
		},
		{
			name: "Overlapping booking rolls back",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "id" FROM "booking_links" WHERE .* FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookings"`)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectRollback()
			},
			expectedErr: ErrSlotAlreadyBooked,
		},
		{
			name: "Exclusion constraint violation maps to already booked",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "id" FROM "booking_links" WHERE .* FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookings"`)).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "bookings"`)).
					WillReturnError(&pgconn.PgError{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})
				mock.ExpectRollback()
			},
			expectedErr: ErrSlotAlreadyBooked,
		},
		{
			name: "Missing link",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT "id" FROM "booking_links" WHERE .* FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectRollback()
			},
			expectedErr: ErrLinkNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			st := NewGormStore(gormDB)

			tc.mockExpectations(mock)

			b := newBooking()
			err := st.InsertBookingIfNoOverlap(context.Background(), b)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedID, b.ID)
				assert.Equal(t, model.BookingConfirmed, b.Status)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_LockLink_SQL(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "booking_links" WHERE link_id = \$1 AND active = \$2 LIMIT \$3 FOR UPDATE`).
		WithArgs("abc", true, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "host_id", "link_id", "active"}).AddRow(3, 9, "abc", true))

	link, err := st.LockLink(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), link.ID)
	assert.Equal(t, int64(9), link.HostID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

func TestGormStore_TransitionBooking_SQL(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET "status"=$1,"updated_at"=$2 WHERE id = $3 AND status = $4`)).
		WithArgs(model.BookingCancelled, Any{}, 5, model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.TransitionBooking(context.Background(), 5, model.BookingConfirmed, model.BookingCancelled)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
