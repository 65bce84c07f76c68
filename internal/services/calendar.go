package services

import (
	"sort"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
)

// DayCell is one square of the month grid.
type DayCell struct {
	Date     time.Time
	InMonth  bool
	Today    bool
	Bookings []models.Booking
	Dominant domain.BookingStatus
	Color    string
}

type CalendarMonth struct {
	Month time.Time
	Prev  time.Time
	Next  time.Time
	Weeks [][]DayCell
}

// GroupByDay buckets bookings by the local day each segment starts on.
// A booking with no segments falls on the day of its start time. A booking
// is listed once per day even when several of its segments start that day.
func GroupByDay(bookings []models.Booking, loc *time.Location) map[time.Time][]models.Booking {
	out := make(map[time.Time][]models.Booking)
	for _, b := range bookings {
		var starts []time.Time
		for _, seg := range b.Segments {
			if !seg.StartTime.IsZero() {
				starts = append(starts, seg.StartTime)
			}
		}
		if len(starts) == 0 {
			if st := b.StartTime(); !st.IsZero() {
				starts = append(starts, st)
			}
		}
		seen := make(map[time.Time]bool, len(starts))
		for _, st := range starts {
			day := utils.DayKey(st, loc)
			if seen[day] {
				continue
			}
			seen[day] = true
			out[day] = append(out[day], b)
		}
	}
	for day := range out {
		list := out[day]
		sort.SliceStable(list, func(i, j int) bool { return list[i].StartTime().Before(list[j].StartTime()) })
	}
	return out
}

// DominantStatus is the most frequent status in bookings. On a tie the status
// that appears first in the list wins.
func DominantStatus(bookings []models.Booking) domain.BookingStatus {
	counts := make(map[domain.BookingStatus]int)
	var order []domain.BookingStatus
	for _, b := range bookings {
		if counts[b.Status] == 0 {
			order = append(order, b.Status)
		}
		counts[b.Status]++
	}
	var best domain.BookingStatus
	bestCount := 0
	for _, st := range order {
		if counts[st] > bestCount {
			best, bestCount = st, counts[st]
		}
	}
	return best
}

// BuildMonth lays out the month containing month as Monday-first weeks.
func BuildMonth(month time.Time, bookings []models.Booking, loc *time.Location, now time.Time) CalendarMonth {
	month = month.In(loc)
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	byDay := GroupByDay(bookings, loc)
	today := utils.DayKey(now, loc)

	offset := (int(first.Weekday()) + 6) % 7
	cursor := first.AddDate(0, 0, -offset)

	cal := CalendarMonth{
		Month: first,
		Prev:  first.AddDate(0, -1, 0),
		Next:  first.AddDate(0, 1, 0),
	}
	for {
		week := make([]DayCell, 7)
		for i := range week {
			day := cursor.AddDate(0, 0, i)
			cell := DayCell{
				Date:    day,
				InMonth: day.Month() == first.Month(),
				Today:   day.Equal(today),
			}
			if cell.InMonth {
				cell.Bookings = byDay[day]
				if len(cell.Bookings) > 0 {
					cell.Dominant = DominantStatus(cell.Bookings)
					cell.Color = cell.Dominant.BadgeColor()
				}
			}
			week[i] = cell
		}
		cal.Weeks = append(cal.Weeks, week)
		cursor = cursor.AddDate(0, 0, 7)
		if cursor.Month() != first.Month() {
			break
		}
	}
	return cal
}
