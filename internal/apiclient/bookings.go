package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

// CalculatePrice asks the API for a quote. token may be empty; the endpoint is public.
func (c *Client) CalculatePrice(ctx context.Context, token string, req models.EstimateRequest) (models.PriceEstimate, error) {
	var est models.PriceEstimate
	res, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/public/bookings/calculate",
		Body:   req,
		Token:  token,
	})
	if err != nil {
		return est, err
	}
	err = res.Decode(&est)
	return est, err
}

func (c *Client) CreateBooking(ctx context.Context, token string, req models.BookingRequest) (models.Booking, error) {
	var b models.Booking
	res, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/bookings", Body: req, Token: token})
	if err != nil {
		return b, err
	}
	if err := res.Decode(&b); err != nil {
		return b, err
	}
	if b.ID == "" {
		return b, errMissing("booking id")
	}
	return b, nil
}

func (c *Client) ListBookings(ctx context.Context, token string, p domain.Pagination) (models.Page[models.Booking], error) {
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/bookings", Query: pageQuery(p), Token: token})
	if err != nil {
		return models.Page[models.Booking]{}, err
	}
	return decodePage[models.Booking](res.Data(), p)
}

func (c *Client) GetBooking(ctx context.Context, token, id string) (models.Booking, error) {
	var b models.Booking
	res, err := c.Do(ctx, Request{
		Method:   http.MethodGet,
		Path:     "/api/v1/bookings/" + url.PathEscape(id),
		Endpoint: "GET /api/v1/bookings/{id}",
		Token:    token,
	})
	if err != nil {
		return b, err
	}
	err = res.Decode(&b)
	return b, err
}

func (c *Client) CancelBooking(ctx context.Context, token, id string) error {
	_, err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/api/v1/bookings/" + url.PathEscape(id) + "/cancel",
		Endpoint: "POST /api/v1/bookings/{id}/cancel",
		Token:    token,
	})
	return err
}
