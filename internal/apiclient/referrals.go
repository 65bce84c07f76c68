package apiclient

import (
	"context"
	"net/http"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

func (c *Client) ReferralSummary(ctx context.Context, token string) (models.ReferralSummary, error) {
	var s models.ReferralSummary
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/referrals/me", Token: token})
	if err != nil {
		return s, err
	}
	err = res.Decode(&s)
	return s, err
}

func (c *Client) ListReferrals(ctx context.Context, token string, p domain.Pagination) (models.Page[models.Referral], error) {
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/referrals", Query: pageQuery(p), Token: token})
	if err != nil {
		return models.Page[models.Referral]{}, err
	}
	return decodePage[models.Referral](res.Data(), p)
}
