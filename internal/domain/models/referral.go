package models

import "time"

// ReferralSummary is the customer's own referral code and totals.
type ReferralSummary struct {
	Code          string  `json:"referralCode"`
	TotalReferred int     `json:"totalReferrals"`
	TotalEarned   float64 `json:"totalEarnings"`
	Currency      string  `json:"currency"`
}

// Referral is one user who signed up with the customer's code.
type Referral struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Reward    float64   `json:"reward"`
	CreatedAt time.Time `json:"createdAt"`
}
