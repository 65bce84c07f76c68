package domain

import "strings"

// BookingStatus is the server-owned lifecycle state of a booking.
type BookingStatus string

const (
	BookingPendingPayment     BookingStatus = "PENDING_PAYMENT"
	BookingConfirmed          BookingStatus = "CONFIRMED"
	BookingInProgress         BookingStatus = "IN_PROGRESS"
	BookingCompleted          BookingStatus = "COMPLETED"
	BookingNoShow             BookingStatus = "NO_SHOW"
	BookingFailedAvailability BookingStatus = "FAILED_AVAILABILITY"
	BookingCancelledByUser    BookingStatus = "CANCELLED_BY_USER"
	BookingCancelledByAdmin   BookingStatus = "CANCELLED_BY_ADMIN"
	BookingCancelledByHost    BookingStatus = "CANCELLED_BY_HOST"

	cancelledPrefix = "CANCELLED_"
)

// PaymentStatus is the server-owned state of a payment attempt.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentSuccessful PaymentStatus = "SUCCESSFUL"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentAbandoned  PaymentStatus = "ABANDONED"
)

// Badge colours understood by the stylesheet.
const (
	BadgeYellow = "yellow"
	BadgeBlue   = "blue"
	BadgePurple = "purple"
	BadgeGreen  = "green"
	BadgeRed    = "red"
	BadgeGray   = "gray"
	BadgeOrange = "orange"
)

func NormalizeBookingStatus(s string) BookingStatus {
	return BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
}

func (s BookingStatus) IsCancelled() bool {
	return strings.HasPrefix(string(s), cancelledPrefix)
}

// Cancellable reports whether the customer may request a cancellation.
func (s BookingStatus) Cancellable() bool {
	return s == BookingPendingPayment || s == BookingConfirmed
}

// Payable reports whether payment can still be initiated.
func (s BookingStatus) Payable() bool {
	return s == BookingPendingPayment
}

func (s BookingStatus) BadgeColor() string {
	switch {
	case s == BookingPendingPayment:
		return BadgeYellow
	case s == BookingConfirmed:
		return BadgeBlue
	case s == BookingInProgress:
		return BadgePurple
	case s == BookingCompleted:
		return BadgeGreen
	case s.IsCancelled():
		return BadgeRed
	case s == BookingFailedAvailability:
		return BadgeOrange
	default:
		return BadgeGray
	}
}

func (s BookingStatus) Label() string {
	return humanize(string(s))
}

func NormalizePaymentStatus(s string) PaymentStatus {
	return PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
}

func (s PaymentStatus) BadgeColor() string {
	switch s {
	case PaymentPending:
		return BadgeYellow
	case PaymentSuccessful:
		return BadgeGreen
	case PaymentFailed:
		return BadgeRed
	default:
		return BadgeGray
	}
}

func (s PaymentStatus) Label() string {
	return humanize(string(s))
}

// humanize turns PENDING_PAYMENT into "Pending Payment".
func humanize(s string) string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '_' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, " ")
}
