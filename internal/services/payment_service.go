package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/session"
	"rentalweb/internal/utils"
)

type PaymentService struct {
	API PaymentAPI
	// CallbackURL is the absolute URL the gateway returns the customer to.
	CallbackURL string
	RequestID   string
}

// ParseGateway maps the form value to a gateway. Empty selects Paystack.
func ParseGateway(raw string) (domain.Gateway, error) {
	v := domain.Gateway(strings.ToUpper(strings.TrimSpace(raw)))
	if v == "" {
		return domain.GatewayPaystack, nil
	}
	for _, gw := range domain.Gateways {
		if v == gw {
			return gw, nil
		}
	}
	return "", domain.ValidationError{Field: "gateway", Msg: "is not a supported payment method"}
}

// Checkout starts a hosted checkout for bookingID and returns where to send the customer.
func (s PaymentService) Checkout(ctx context.Context, rc domain.RequestContext, bookingID string, gw domain.Gateway) (models.Checkout, error) {
	if err := requireLogin(rc); err != nil {
		return models.Checkout{}, err
	}
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return models.Checkout{}, domain.ValidationError{Field: "booking_id", Msg: "is required"}
	}

	var (
		co  models.Checkout
		err error
	)
	switch gw {
	case domain.GatewayPaystack:
		co, err = s.API.InitiatePaystack(ctx, rc.AccessToken, bookingID, s.CallbackURL)
	case domain.GatewayMonnify:
		co, err = s.API.InitializeMonnify(ctx, rc.AccessToken, bookingID, s.CallbackURL)
	default:
		return models.Checkout{}, domain.ValidationError{Field: "gateway", Msg: "is not a supported payment method"}
	}
	if err != nil {
		return models.Checkout{}, err
	}
	if !validRedirect(co.RedirectURL) {
		return models.Checkout{}, domain.UpstreamError{Msg: "the payment provider did not return a checkout link"}
	}

	utils.LogEvent(s.RequestID, "payments", "checkout", fmt.Sprintf("booking_id=%s gateway=%s reference=%s", bookingID, gw, co.Reference))
	return co, nil
}

func validRedirect(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

func (s PaymentService) Verify(ctx context.Context, rc domain.RequestContext, reference string) (models.Payment, error) {
	if err := requireLogin(rc); err != nil {
		return models.Payment{}, err
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.Payment{}, domain.ValidationError{Field: "reference", Msg: "is required"}
	}
	p, err := s.API.VerifyPayment(ctx, rc.AccessToken, reference)
	if err != nil {
		return models.Payment{}, err
	}
	p.Status = domain.NormalizePaymentStatus(string(p.Status))
	utils.LogEvent(s.RequestID, "payments", "verify", fmt.Sprintf("reference=%s status=%s", reference, p.Status))
	return p, nil
}

// Outcome is the flash shown after returning from the gateway.
func Outcome(p models.Payment) (kind, message string) {
	switch p.Status {
	case domain.PaymentSuccessful:
		return session.FlashSuccess, "Payment received. Your booking is confirmed."
	case domain.PaymentPending:
		return session.FlashInfo, "Your payment is still being processed. We will notify you once it clears."
	case domain.PaymentFailed:
		return session.FlashError, "Your payment failed. You can try again from the booking page."
	case domain.PaymentAbandoned:
		return session.FlashError, "The payment was not completed."
	default:
		return session.FlashInfo, "Payment status: " + p.Status.Label()
	}
}
