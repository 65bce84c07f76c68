package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"

	"github.com/tidwall/gjson"
)

// InitiatePaystack starts a Paystack checkout for bookingID.
func (c *Client) InitiatePaystack(ctx context.Context, token, bookingID, callbackURL string) (models.Checkout, error) {
	res, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/payments/initiate",
		Body: map[string]string{
			"bookingId":   bookingID,
			"gateway":     string(domain.GatewayPaystack),
			"callbackUrl": callbackURL,
		},
		Token: token,
	})
	if err != nil {
		return models.Checkout{}, err
	}
	return checkoutFrom(res.Data(), domain.GatewayPaystack, bookingID), nil
}

// InitializeMonnify starts a Monnify checkout for bookingID.
func (c *Client) InitializeMonnify(ctx context.Context, token, bookingID, callbackURL string) (models.Checkout, error) {
	res, err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/api/v1/payments/initialize/" + url.PathEscape(bookingID),
		Endpoint: "POST /api/v1/payments/initialize/{bookingId}",
		Body:     map[string]string{"callbackUrl": callbackURL},
		Token:    token,
	})
	if err != nil {
		return models.Checkout{}, err
	}
	return checkoutFrom(res.Data(), domain.GatewayMonnify, bookingID), nil
}

func (c *Client) VerifyPayment(ctx context.Context, token, reference string) (models.Payment, error) {
	var p models.Payment
	res, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/v1/payments/verify",
		Query:  url.Values{"reference": {reference}},
		Token:  token,
	})
	if err != nil {
		return p, err
	}
	err = res.Decode(&p)
	return p, err
}

// checkoutFrom tolerates the different key spellings used by the two gateway integrations.
func checkoutFrom(data gjson.Result, gw domain.Gateway, bookingID string) models.Checkout {
	return models.Checkout{
		Gateway:   gw,
		BookingID: bookingID,
		Reference: firstString(data, "reference", "paymentReference", "transactionReference"),
		RedirectURL: firstString(data,
			"authorizationUrl", "authorization_url",
			"checkoutUrl", "checkout_url",
			"redirectUrl",
		),
	}
}
