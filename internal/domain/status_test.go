package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusBadgeColor(t *testing.T) {
	cases := map[string]string{
		"PENDING_PAYMENT":     BadgeYellow,
		"confirmed":           BadgeBlue,
		"IN_PROGRESS":         BadgePurple,
		"COMPLETED":           BadgeGreen,
		"CANCELLED_BY_USER":   BadgeRed,
		"CANCELLED_BY_ADMIN":  BadgeRed,
		"CANCELLED_SOMETHING": BadgeRed,
		"NO_SHOW":             BadgeGray,
		"FAILED_AVAILABILITY": BadgeOrange,
		"WHATEVER":            BadgeGray,
		"":                    BadgeGray,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeBookingStatus(in).BadgeColor(), in)
	}
}

func TestPaymentStatusBadgeColor(t *testing.T) {
	assert.Equal(t, BadgeYellow, NormalizePaymentStatus("pending").BadgeColor())
	assert.Equal(t, BadgeGreen, NormalizePaymentStatus("SUCCESSFUL").BadgeColor())
	assert.Equal(t, BadgeRed, NormalizePaymentStatus("FAILED").BadgeColor())
	assert.Equal(t, BadgeGray, NormalizePaymentStatus("ABANDONED").BadgeColor())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending Payment", BookingPendingPayment.Label())
	assert.Equal(t, "Cancelled By User", BookingCancelledByUser.Label())
	assert.Equal(t, "Unknown", BookingStatus("").Label())
	assert.Equal(t, "Successful", PaymentSuccessful.Label())
}

func TestBookingStatusActions(t *testing.T) {
	assert.True(t, BookingPendingPayment.Payable())
	assert.False(t, BookingConfirmed.Payable())
	assert.True(t, BookingConfirmed.Cancellable())
	assert.False(t, BookingCompleted.Cancellable())
	assert.True(t, BookingCancelledByHost.IsCancelled())
}

func TestUserMessageHidesInternal(t *testing.T) {
	assert.Equal(t, "something went wrong, please try again", UserMessage(InternalError{Msg: "db exploded"}))
	assert.Equal(t, "email: is required", UserMessage(ValidationError{Field: "email", Msg: "is required"}))
	assert.True(t, IsValidation(FieldErrors{{Field: "a", Msg: "b"}}))
}
