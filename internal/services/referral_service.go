package services

import (
	"context"
	"net/url"
	"strings"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

type ReferralService struct {
	API ReferralAPI
	// PublicBaseURL is the site origin used to build share links.
	PublicBaseURL string
	RequestID     string
}

type ReferralOverview struct {
	Summary   models.ReferralSummary
	ShareLink string
	Referrals models.Page[models.Referral]
}

// ShareLink builds the signup link carrying code.
func (s ReferralService) ShareLink(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	return strings.TrimRight(s.PublicBaseURL, "/") + "/signup?ref=" + url.QueryEscape(code)
}

func (s ReferralService) Overview(ctx context.Context, rc domain.RequestContext, p domain.Pagination) (ReferralOverview, error) {
	if err := requireLogin(rc); err != nil {
		return ReferralOverview{}, err
	}
	sum, err := s.API.ReferralSummary(ctx, rc.AccessToken)
	if err != nil {
		return ReferralOverview{}, err
	}
	list, err := s.API.ListReferrals(ctx, rc.AccessToken, p.Normalize())
	if err != nil {
		return ReferralOverview{}, err
	}
	return ReferralOverview{
		Summary:   sum,
		ShareLink: s.ShareLink(sum.Code),
		Referrals: list,
	}, nil
}
