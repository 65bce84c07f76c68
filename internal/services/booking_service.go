package services

import (
	"context"
	"fmt"
	"strings"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/pager"
	"rentalweb/internal/utils"
)

// calendarMaxPages bounds how much history the calendar pulls in one render.
const calendarMaxPages = 10

type BookingService struct {
	API       BookingAPI
	RequestID string
}

func normalizeBooking(b models.Booking) models.Booking {
	b.Status = domain.NormalizeBookingStatus(string(b.Status))
	b.PaymentStatus = domain.NormalizePaymentStatus(string(b.PaymentStatus))
	return b
}

func (s BookingService) History(ctx context.Context, rc domain.RequestContext, p domain.Pagination) (models.Page[models.Booking], error) {
	if err := requireLogin(rc); err != nil {
		return models.Page[models.Booking]{}, err
	}
	page, err := s.API.ListBookings(ctx, rc.AccessToken, p.Normalize())
	if err != nil {
		return page, err
	}
	for i := range page.Items {
		page.Items[i] = normalizeBooking(page.Items[i])
	}
	return page, nil
}

// Pager resumes the history listing at st for "load more".
func (s BookingService) Pager(rc domain.RequestContext, st pager.State) *pager.Pager[models.Booking] {
	return pager.New(func(ctx context.Context, page int) (models.Page[models.Booking], error) {
		return s.History(ctx, rc, domain.Pagination{Page: page, Size: domain.DefaultPageSize})
	}, st)
}

// Detail loads one booking. A blank id is reported as not found.
func (s BookingService) Detail(ctx context.Context, rc domain.RequestContext, id string) (models.Booking, error) {
	if err := requireLogin(rc); err != nil {
		return models.Booking{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	b, err := s.API.GetBooking(ctx, rc.AccessToken, id)
	if err != nil {
		return b, err
	}
	return normalizeBooking(b), nil
}

func (s BookingService) Cancel(ctx context.Context, rc domain.RequestContext, id string) error {
	b, err := s.Detail(ctx, rc, id)
	if err != nil {
		return err
	}
	if !b.Status.Cancellable() {
		return domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("a %s booking cannot be cancelled", strings.ToLower(b.Status.Label()))}
	}
	if err := s.API.CancelBooking(ctx, rc.AccessToken, b.ID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "bookings", "cancel", "booking_id="+b.ID)
	return nil
}

// All collects the customer's history for the calendar.
func (s BookingService) All(ctx context.Context, rc domain.RequestContext) ([]models.Booking, error) {
	if err := requireLogin(rc); err != nil {
		return nil, err
	}
	p := pager.New(func(ctx context.Context, page int) (models.Page[models.Booking], error) {
		return s.History(ctx, rc, domain.Pagination{Page: page, Size: domain.MaxPageSize})
	}, pager.State{})
	return p.Collect(ctx, calendarMaxPages)
}
