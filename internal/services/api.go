package services

import (
	"context"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

// The interfaces below are the slices of *apiclient.Client each service needs.

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (apiclient.LoginResult, error)
	Signup(ctx context.Context, req apiclient.SignupRequest) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResendOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	Logout(ctx context.Context, token string) error
}

type CatalogAPI interface {
	SearchVehicles(ctx context.Context, search string, p domain.Pagination) (models.Page[models.Vehicle], error)
	Vehicle(ctx context.Context, id string) (models.Vehicle, error)
}

type BookingAPI interface {
	CalculatePrice(ctx context.Context, token string, req models.EstimateRequest) (models.PriceEstimate, error)
	CreateBooking(ctx context.Context, token string, req models.BookingRequest) (models.Booking, error)
	ListBookings(ctx context.Context, token string, p domain.Pagination) (models.Page[models.Booking], error)
	GetBooking(ctx context.Context, token, id string) (models.Booking, error)
	CancelBooking(ctx context.Context, token, id string) error
}

type PaymentAPI interface {
	InitiatePaystack(ctx context.Context, token, bookingID, callbackURL string) (models.Checkout, error)
	InitializeMonnify(ctx context.Context, token, bookingID, callbackURL string) (models.Checkout, error)
	VerifyPayment(ctx context.Context, token, reference string) (models.Payment, error)
}

type NotificationAPI interface {
	ListNotifications(ctx context.Context, token string, p domain.Pagination) (models.Page[models.Notification], error)
	UnreadNotifications(ctx context.Context, token string) (int, error)
	MarkNotificationRead(ctx context.Context, token, id string) error
	DeleteNotification(ctx context.Context, token, id string) error
	DeleteNotifications(ctx context.Context, token string, ids []string) error
}

type ReferralAPI interface {
	ReferralSummary(ctx context.Context, token string) (models.ReferralSummary, error)
	ListReferrals(ctx context.Context, token string, p domain.Pagination) (models.Page[models.Referral], error)
}

type ProfileAPI interface {
	Me(ctx context.Context, token string) (models.UserProfile, error)
	UpdateMe(ctx context.Context, token string, upd models.ProfileUpdate) (models.UserProfile, error)
	UploadProfilePicture(ctx context.Context, token string, f apiclient.File) (string, error)
}

// Drafts is the per-visitor key/value storage the wizard keeps its state in.
type Drafts interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(keys ...string)
}

func requireLogin(rc domain.RequestContext) error {
	if !rc.Authenticated() {
		return domain.UnauthorizedError{}
	}
	return nil
}
