package scheduling_test

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/scheduling"
	"booking-scheduler-backend/internal/slot"
	"booking-scheduler-backend/internal/store"
	"booking-scheduler-backend/internal/testutil"
	"booking-scheduler-backend/internal/validate"
)

const (
	today    = "2030-01-07"
	tomorrow = "2030-01-08"
)

// fixedNow is 10:10 on today.
var fixedNow = time.Date(2030, 1, 7, 10, 10, 0, 0, time.UTC)

type recorder struct {
	mu  sync.Mutex
	ids []int64
}

func (r *recorder) BookingAdmitted(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

type fixture struct {
	db    *gorm.DB
	svc   *scheduling.Service
	host  *model.Host
	link  *model.BookingLink
	notes *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gormDB := testutil.NewDB(t)
	host := testutil.SeedHost(t, gormDB, "host@example.com")
	link := testutil.SeedLink(t, gormDB, host.ID, "link-1")
	rec := &recorder{}
	svc := scheduling.NewService(store.NewGormStore(gormDB),
		scheduling.WithClock(func() time.Time { return fixedNow }),
		scheduling.WithNotifier(rec),
	)
	return &fixture{db: gormDB, svc: svc, host: host, link: link, notes: rec}
}

func clk(h, m int) model.Clock { return model.NewClock(h, m) }

func request(date, start, end string) validate.BookingInput {
	return validate.BookingInput{
		VisitorName:  "  Grace Hopper ",
		VisitorEmail: " Grace@Example.com",
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Notes:        "hello",
	}
}

func TestAdmit(t *testing.T) {
	ctx := context.Background()

	t.Run("Interval outside every window is not available", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(10, 0))

		_, err := f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:30", "10:30"))
		assert.ErrorIs(t, err, scheduling.ErrSlotNotAvailable)
		_, err = f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "14:00", "14:30"))
		assert.ErrorIs(t, err, scheduling.ErrSlotNotAvailable)
		assert.Empty(t, f.notes.ids)
	})

	t.Run("Same interval twice", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(10, 0))

		b, err := f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:00", "09:30"))
		require.NoError(t, err)
		assert.Equal(t, model.BookingConfirmed, b.Status)
		assert.Equal(t, "Grace Hopper", b.VisitorName)
		assert.Equal(t, "grace@example.com", b.VisitorEmail)
		assert.Equal(t, f.link.LinkID, b.BookingLink.LinkID)

		_, err = f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:00", "09:30"))
		assert.ErrorIs(t, err, scheduling.ErrSlotAlreadyBooked)

		assert.Equal(t, []int64{b.ID}, f.notes.ids)
	})

	t.Run("Unknown or inactive link", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(10, 0))

		_, err := f.svc.Admit(ctx, "nope", request(tomorrow, "09:00", "09:30"))
		assert.ErrorIs(t, err, scheduling.ErrLinkNotFound)

		require.NoError(t, f.svc.DeactivateLink(ctx, f.host.ID, f.link.LinkID))
		_, err = f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:00", "09:30"))
		assert.ErrorIs(t, err, scheduling.ErrLinkNotFound)
	})

	t.Run("Inactive window does not admit", func(t *testing.T) {
		f := newFixture(t)
		w := testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(10, 0))
		require.NoError(t, f.db.Model(w).Update("active", false).Error)

		_, err := f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:00", "09:30"))
		assert.ErrorIs(t, err, scheduling.ErrSlotNotAvailable)
	})

	t.Run("Validation fails before any lookup", func(t *testing.T) {
		f := newFixture(t)
		in := request(tomorrow, "10:00", "09:00")
		in.VisitorEmail = "not-an-email"

		_, err := f.svc.Admit(ctx, "missing-link", in)
		var verr *validate.Error
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})

	t.Run("Past date and already started slot", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, today, clk(9, 0), clk(12, 0))

		var verr *validate.Error
		_, err := f.svc.Admit(ctx, f.link.LinkID, request("2030-01-06", "09:00", "09:30"))
		assert.ErrorAs(t, err, &verr)
		_, err = f.svc.Admit(ctx, f.link.LinkID, request(today, "10:00", "10:30"))
		assert.ErrorAs(t, err, &verr)

		_, err = f.svc.Admit(ctx, f.link.LinkID, request(today, "10:30", "11:00"))
		assert.NoError(t, err)
	})

	t.Run("Off-grid interval inside a window", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(10, 0))

		_, err := f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:10", "09:25"))
		require.NoError(t, err)
		_, err = f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:20", "09:50"))
		assert.ErrorIs(t, err, scheduling.ErrSlotAlreadyBooked)
	})
}

func TestAdmitConcurrentExclusivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(12, 0))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every request overlaps 09:30-10:00.
			start, end := "09:30", "10:00"
			if i%2 == 1 {
				start, end = "09:15", "09:45"
			}
			_, err := f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, start, end))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, scheduling.ErrSlotAlreadyBooked)
	}
	assert.Equal(t, 1, ok)

	var count int64
	require.NoError(t, f.db.Model(&model.Booking{}).Where("status <> ?", model.BookingCancelled).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Len(t, f.notes.ids, 1)
}

func TestAvailableSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("Future date resolves bookings", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(11, 0))
		testutil.SeedBooking(t, f.db, f.link.ID, tomorrow, clk(9, 30), clk(10, 0), model.BookingConfirmed)
		testutil.SeedBooking(t, f.db, f.link.ID, tomorrow, clk(10, 0), clk(10, 30), model.BookingCancelled)

		date, slots, err := f.svc.AvailableSlots(ctx, f.link.LinkID, tomorrow+"T08:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, tomorrow, date)
		assert.Equal(t, []slot.Slot{
			{Start: clk(9, 0), End: clk(9, 30)},
			{Start: clk(10, 0), End: clk(10, 30)},
			{Start: clk(10, 30), End: clk(11, 0)},
		}, slots)
	})

	t.Run("Today drops slots that already started", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, today, clk(9, 0), clk(11, 0))

		_, slots, err := f.svc.AvailableSlots(ctx, f.link.LinkID, today)
		require.NoError(t, err)
		assert.Equal(t, []slot.Slot{{Start: clk(10, 30), End: clk(11, 0)}}, slots)
	})

	t.Run("Past date is empty", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, "2030-01-01", clk(9, 0), clk(11, 0))

		_, slots, err := f.svc.AvailableSlots(ctx, f.link.LinkID, "2030-01-01")
		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots)
	})

	t.Run("Errors", func(t *testing.T) {
		f := newFixture(t)
		_, _, err := f.svc.AvailableSlots(ctx, "missing", tomorrow)
		assert.ErrorIs(t, err, scheduling.ErrLinkNotFound)

		var verr *validate.Error
		_, _, err = f.svc.AvailableSlots(ctx, f.link.LinkID, "07/01/2030")
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Granularity option", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(10, 0))
		svc := scheduling.NewService(store.NewGormStore(f.db),
			scheduling.WithClock(func() time.Time { return fixedNow }),
			scheduling.WithGranularity(15*time.Minute),
		)
		_, slots, err := svc.AvailableSlots(ctx, f.link.LinkID, tomorrow)
		require.NoError(t, err)
		assert.Len(t, slots, 4)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.SeedWindow(t, f.db, f.host.ID, tomorrow, clk(9, 0), clk(10, 0))
	other := testutil.SeedHost(t, f.db, "other@example.com")

	b, err := f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:00", "09:30"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, other.ID, b.ID)
	assert.ErrorIs(t, err, scheduling.ErrNotFound)

	cancelled, err := f.svc.Cancel(ctx, f.host.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.Status)

	var verr *validate.Error
	_, err = f.svc.Cancel(ctx, f.host.ID, b.ID)
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.Admit(ctx, f.link.LinkID, request(tomorrow, "09:00", "09:30"))
	assert.NoError(t, err, "cancelled interval is bookable again")

	bookings, err := f.svc.ListBookings(ctx, f.host.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestWindows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	w, err := f.svc.CreateWindow(ctx, f.host.ID, scheduling.WindowInput{Date: tomorrow, StartTime: "9:00", EndTime: "12:00"})
	require.NoError(t, err)
	assert.Equal(t, clk(9, 0), w.StartTime)
	assert.True(t, w.Active)

	_, err = f.svc.CreateWindow(ctx, f.host.ID, scheduling.WindowInput{Date: tomorrow, StartTime: "11:00", EndTime: "13:00"})
	assert.ErrorIs(t, err, scheduling.ErrWindowOverlap)

	var verr *validate.Error
	_, err = f.svc.CreateWindow(ctx, f.host.ID, scheduling.WindowInput{Date: "2030-01-06", StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorAs(t, err, &verr)
	_, err = f.svc.CreateWindow(ctx, f.host.ID, scheduling.WindowInput{Date: tomorrow, StartTime: "13:00", EndTime: "13:00"})
	assert.ErrorAs(t, err, &verr)

	inactive := false
	updated, err := f.svc.UpdateWindow(ctx, f.host.ID, w.ID, scheduling.WindowInput{Date: tomorrow, StartTime: "08:00", EndTime: "12:00", Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	listed, err := f.svc.ListWindows(ctx, f.host.ID, "", false)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = f.svc.CreateWindow(ctx, f.host.ID, scheduling.WindowInput{Date: tomorrow, StartTime: "11:00", EndTime: "13:00"})
	require.NoError(t, err)

	listed, err = f.svc.ListWindows(ctx, f.host.ID, tomorrow, false)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = f.svc.UpdateWindow(ctx, f.host.ID, 999, scheduling.WindowInput{Date: tomorrow, StartTime: "08:00", EndTime: "09:00"})
	assert.ErrorIs(t, err, scheduling.ErrNotFound)

	require.NoError(t, f.svc.DeleteWindow(ctx, f.host.ID, w.ID))
	assert.ErrorIs(t, f.svc.DeleteWindow(ctx, f.host.ID, w.ID), scheduling.ErrNotFound)
}

func TestLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l, err := f.svc.CreateLink(ctx, f.host.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultLinkTitle, l.Title)

	links, err := f.svc.ListLinks(ctx, f.host.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)

	resolved, err := f.svc.ResolveLink(ctx, l.LinkID)
	require.NoError(t, err)
	assert.Equal(t, f.host.ID, resolved.Host.ID)
}

func TestFreshnessUsesWallClockOnDaylightSavingDay(t *testing.T) {
	ctx := context.Background()
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks jumped from 02:00 to 03:00, so only 9h10m have elapsed since midnight.
	f := newFixture(t)
	svc := scheduling.NewService(store.NewGormStore(f.db),
		scheduling.WithClock(func() time.Time { return time.Date(2030, 3, 10, 10, 10, 0, 0, newYork) }),
	)
	testutil.SeedWindow(t, f.db, f.host.ID, "2030-03-10", clk(9, 0), clk(11, 0))

	date, slots, err := svc.AvailableSlots(ctx, f.link.LinkID, "2030-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2030-03-10", date)
	assert.Equal(t, []slot.Slot{{Start: clk(10, 30), End: clk(11, 0)}}, slots)

	var verr *validate.Error
	_, err = svc.Admit(ctx, f.link.LinkID, request("2030-03-10", "09:30", "10:00"))
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Admit(ctx, f.link.LinkID, request("2030-03-10", "10:30", "11:00"))
	assert.NoError(t, err)
}
