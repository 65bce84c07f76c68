package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/pager"
	"rentalweb/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ValidationError{Field: "email"}, http.StatusBadRequest},
		{domain.FieldErrors{{Field: "otp"}}, http.StatusBadRequest},
		{domain.UnauthorizedError{}, http.StatusUnauthorized},
		{domain.NotFoundError{Resource: "booking"}, http.StatusNotFound},
		{domain.ConflictError{Msg: "taken"}, http.StatusConflict},
		{domain.UpstreamError{Status: 503}, http.StatusBadGateway},
		{services.CooldownError{Remaining: time.Second}, http.StatusTooManyRequests},
		{domain.InternalError{}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got, _ := statusFor(tc.err)
		assert.Equal(t, tc.want, got, tc.err.Error())
	}
}

func TestFieldErrors(t *testing.T) {
	assert.Equal(t, map[string]string{"email": "is required"}, fieldErrors(domain.ValidationError{Field: "email", Msg: "is required"}))
	assert.Equal(t, map[string]string{"otp": "bad", "password": "short"}, fieldErrors(domain.FieldErrors{
		{Field: "otp", Msg: "bad"},
		{Field: "password", Msg: "short"},
	}))
	assert.Empty(t, fieldErrors(domain.UpstreamError{}))
}

func TestPagerRegistryReusesLivePager(t *testing.T) {
	reg := newPagerRegistry[int]()
	builds := 0
	build := func() *pager.Pager[int] {
		builds++
		return pager.New(func(ctx context.Context, page int) (models.Page[int], error) {
			return models.Page[int]{Items: []int{page}, Number: page, Last: true}, nil
		}, pager.State{})
	}

	a := reg.get("s1|pager:bookings", build)
	b := reg.get("s1|pager:bookings", build)
	assert.Same(t, a, b)
	assert.Equal(t, 1, builds)

	reg.get("s2|pager:bookings", build)
	assert.Equal(t, 2, builds)
}

func TestPagerRegistryDropsIdleEntries(t *testing.T) {
	reg := newPagerRegistry[int]()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	p := pager.New(func(ctx context.Context, page int) (models.Page[int], error) {
		return models.Page[int]{}, nil
	}, pager.State{Next: 3})
	reg.restart("s1|pager:notifications", p)

	now = now.Add(pagerIdle + time.Minute)
	got := reg.get("s1|pager:notifications", func() *pager.Pager[int] {
		return pager.New(func(ctx context.Context, page int) (models.Page[int], error) {
			return models.Page[int]{}, nil
		}, pager.State{})
	})
	assert.NotSame(t, p, got)
	assert.Equal(t, 0, got.State().Next)
}

func TestNavFor(t *testing.T) {
	nav := navFor(models.Page[int]{Number: 1, TotalPages: 3}, "camry")
	assert.Equal(t, pageNav{Number: 1, TotalPages: 3, HasNext: true, Prev: 0, Next: 2, Search: "camry"}, nav)
}
