package services

import (
	"context"
	"testing"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGateway(t *testing.T) {
	gw, err := ParseGateway("")
	require.NoError(t, err)
	assert.Equal(t, domain.GatewayPaystack, gw)

	gw, err = ParseGateway(" monnify ")
	require.NoError(t, err)
	assert.Equal(t, domain.GatewayMonnify, gw)

	_, err = ParseGateway("flutterwave")
	assert.True(t, domain.IsValidation(err))
}

func TestCheckoutRoutesByGateway(t *testing.T) {
	var callback string
	api := &fakeAPI{paystack: func(id, cb string) (models.Checkout, error) {
		callback = cb
		return models.Checkout{BookingID: id, RedirectURL: "https://checkout.paystack.com/x"}, nil
	}}
	svc := PaymentService{API: api, CallbackURL: "https://rent.example.com/payments/callback"}

	co, err := svc.Checkout(context.Background(), signedIn, "bk-1", domain.GatewayPaystack)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/x", co.RedirectURL)
	assert.Equal(t, "https://rent.example.com/payments/callback", callback)

	_, err = svc.Checkout(context.Background(), signedIn, "bk-1", domain.GatewayMonnify)
	require.NoError(t, err)
	assert.Equal(t, []string{"paystack", "monnify"}, api.calls)
}

func TestCheckoutRejectsMissingRedirect(t *testing.T) {
	for _, redirect := range []string{"", "javascript:alert(1)", "/relative"} {
		api := &fakeAPI{paystack: func(id, _ string) (models.Checkout, error) {
			return models.Checkout{BookingID: id, RedirectURL: redirect}, nil
		}}
		_, err := PaymentService{API: api}.Checkout(context.Background(), signedIn, "bk-1", domain.GatewayPaystack)
		assert.True(t, domain.IsUpstream(err), redirect)
	}
}

func TestCheckoutGuards(t *testing.T) {
	api := &fakeAPI{}
	svc := PaymentService{API: api}
	_, err := svc.Checkout(context.Background(), domain.RequestContext{}, "bk-1", domain.GatewayPaystack)
	assert.True(t, domain.IsUnauthorized(err))
	_, err = svc.Checkout(context.Background(), signedIn, " ", domain.GatewayPaystack)
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Checkout(context.Background(), signedIn, "bk-1", domain.Gateway("CASH"))
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, api.calls)
}

func TestVerifyAndOutcome(t *testing.T) {
	api := &fakeAPI{}
	svc := PaymentService{API: api}

	_, err := svc.Verify(context.Background(), signedIn, "")
	assert.True(t, domain.IsValidation(err))

	p, err := svc.Verify(context.Background(), signedIn, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccessful, p.Status)

	kind, _ := Outcome(p)
	assert.Equal(t, session.FlashSuccess, kind)
	kind, _ = Outcome(models.Payment{Status: domain.PaymentFailed})
	assert.Equal(t, session.FlashError, kind)
	kind, _ = Outcome(models.Payment{Status: domain.PaymentPending})
	assert.Equal(t, session.FlashInfo, kind)
}
