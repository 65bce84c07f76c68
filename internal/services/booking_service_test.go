package services

import (
	"context"
	"testing"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/pager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailMissingIDIsNotFound(t *testing.T) {
	api := &fakeAPI{}
	_, err := BookingService{API: api}.Detail(context.Background(), signedIn, "  ")
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, api.calls)
}

func TestCancelOnlyWhenAllowed(t *testing.T) {
	status := "COMPLETED"
	api := &fakeAPI{getBooking: func(id string) (models.Booking, error) {
		return models.Booking{ID: id, Status: domain.BookingStatus(status)}, nil
	}}
	svc := BookingService{API: api}

	err := svc.Cancel(context.Background(), signedIn, "bk-1")
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, []string{"get_booking"}, api.calls)

	status = "confirmed"
	require.NoError(t, svc.Cancel(context.Background(), signedIn, "bk-1"))
	assert.Equal(t, "cancel_booking", api.calls[len(api.calls)-1])
}

func TestHistoryNormalizesStatus(t *testing.T) {
	api := &fakeAPI{listBookings: func(p domain.Pagination) (models.Page[models.Booking], error) {
		assert.Equal(t, domain.DefaultPageSize, p.Size)
		return models.Page[models.Booking]{Items: []models.Booking{{ID: "a", Status: "in_progress"}}, Last: true}, nil
	}}
	page, err := BookingService{API: api}.History(context.Background(), signedIn, domain.Pagination{Page: -1})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingInProgress, page.Items[0].Status)

	_, err = BookingService{API: api}.History(context.Background(), domain.RequestContext{}, domain.Pagination{})
	assert.True(t, domain.IsUnauthorized(err))
}

func TestAllCollectsEveryPage(t *testing.T) {
	api := &fakeAPI{listBookings: func(p domain.Pagination) (models.Page[models.Booking], error) {
		assert.Equal(t, domain.MaxPageSize, p.Size)
		return models.Page[models.Booking]{Items: []models.Booking{{ID: "x"}}, Number: p.Page, TotalPages: 3}, nil
	}}
	all, err := BookingService{API: api}.All(context.Background(), signedIn)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBookingPagerResumes(t *testing.T) {
	var pages []int
	api := &fakeAPI{listBookings: func(p domain.Pagination) (models.Page[models.Booking], error) {
		pages = append(pages, p.Page)
		return models.Page[models.Booking]{Items: []models.Booking{{ID: "x"}}, Number: p.Page, TotalPages: 3}, nil
	}}
	p := BookingService{API: api}.Pager(signedIn, pager.State{Next: 2})
	_, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, pages)
	assert.True(t, p.Done())
}

func at(day, hour int) time.Time {
	return time.Date(2026, 6, day, hour, 0, 0, 0, lagos)
}

func booking(id string, status domain.BookingStatus, starts ...time.Time) models.Booking {
	b := models.Booking{ID: id, Status: status}
	for _, s := range starts {
		b.Segments = append(b.Segments, models.Segment{StartTime: s, EndTime: s.Add(time.Hour)})
	}
	return b
}

func TestGroupByDay(t *testing.T) {
	bookings := []models.Booking{
		booking("a", domain.BookingConfirmed, at(3, 10), at(3, 15), at(4, 9)),
		booking("b", domain.BookingCompleted, at(3, 8)),
		{ID: "c", Status: domain.BookingNoShow, CreatedAt: at(5, 12)},
		// 23:30 UTC on the 5th is the 6th in Lagos.
		booking("d", domain.BookingConfirmed, time.Date(2026, 6, 5, 23, 30, 0, 0, time.UTC)),
	}
	days := GroupByDay(bookings, lagos)

	day3 := days[time.Date(2026, 6, 3, 0, 0, 0, 0, lagos)]
	require.Len(t, day3, 2)
	assert.Equal(t, "b", day3[0].ID)
	assert.Equal(t, "a", day3[1].ID)
	assert.Len(t, days[time.Date(2026, 6, 4, 0, 0, 0, 0, lagos)], 1)
	assert.Len(t, days[time.Date(2026, 6, 5, 0, 0, 0, 0, lagos)], 1)
	assert.Len(t, days[time.Date(2026, 6, 6, 0, 0, 0, 0, lagos)], 1)
}

func TestDominantStatus(t *testing.T) {
	mk := func(statuses ...domain.BookingStatus) []models.Booking {
		var out []models.Booking
		for _, s := range statuses {
			out = append(out, models.Booking{Status: s})
		}
		return out
	}
	assert.Equal(t, domain.BookingConfirmed, DominantStatus(mk(domain.BookingCompleted, domain.BookingConfirmed, domain.BookingConfirmed)))
	assert.Equal(t, domain.BookingCompleted, DominantStatus(mk(domain.BookingCompleted, domain.BookingConfirmed)), "tie goes to first seen")
	assert.Equal(t, domain.BookingConfirmed, DominantStatus(mk(domain.BookingConfirmed, domain.BookingCompleted, domain.BookingCompleted, domain.BookingConfirmed)))
	assert.Equal(t, domain.BookingStatus(""), DominantStatus(nil))
}

func TestBuildMonthStartsMonday(t *testing.T) {
	bookings := []models.Booking{
		booking("a", domain.BookingPendingPayment, at(10, 9)),
		booking("b", domain.BookingCancelledByUser, at(10, 11)),
		booking("c", domain.BookingCancelledByUser, at(10, 12)),
		booking("z", domain.BookingConfirmed, time.Date(2026, 7, 1, 9, 0, 0, 0, lagos)),
	}
	cal := BuildMonth(at(15, 0), bookings, lagos, at(20, 13))

	// June 2026 starts on a Monday and has 30 days.
	require.Len(t, cal.Weeks, 5)
	assert.Equal(t, time.Monday, cal.Weeks[0][0].Date.Weekday())
	assert.Equal(t, 1, cal.Weeks[0][0].Date.Day())
	assert.Equal(t, time.May, cal.Prev.Month())
	assert.Equal(t, time.July, cal.Next.Month())

	var tenth, twentieth, julyFirst DayCell
	for _, w := range cal.Weeks {
		for _, d := range w {
			switch {
			case d.InMonth && d.Date.Day() == 10:
				tenth = d
			case d.InMonth && d.Date.Day() == 20:
				twentieth = d
			case !d.InMonth && d.Date.Day() == 1:
				julyFirst = d
			}
		}
	}
	assert.Equal(t, domain.BookingCancelledByUser, tenth.Dominant)
	assert.Equal(t, domain.BadgeRed, tenth.Color)
	assert.Len(t, tenth.Bookings, 3)
	assert.True(t, twentieth.Today)
	assert.Empty(t, julyFirst.Bookings, "padding days carry no bookings")
}
