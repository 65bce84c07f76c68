package services

import (
	"context"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

// fakeAPI implements every *API interface. Unset funcs return zero values.
type fakeAPI struct {
	calls []string

	login          func(email, password string) (apiclient.LoginResult, error)
	signup         func(apiclient.SignupRequest) error
	verifyOTP      func(email, otp string) error
	resendOTP      func(email string) error
	forgotPassword func(email string) error
	resetPassword  func(email, otp, pw string) error
	logout         func(token string) error

	calculate     func(models.EstimateRequest) (models.PriceEstimate, error)
	createBooking func(models.BookingRequest) (models.Booking, error)
	listBookings  func(domain.Pagination) (models.Page[models.Booking], error)
	getBooking    func(id string) (models.Booking, error)
	cancelBooking func(id string) error

	paystack func(bookingID, callback string) (models.Checkout, error)
	monnify  func(bookingID, callback string) (models.Checkout, error)
	verify   func(reference string) (models.Payment, error)

	listNotifications func(domain.Pagination) (models.Page[models.Notification], error)
	unread            func() (int, error)
	deleteMany        func(ids []string) error

	me     func() (models.UserProfile, error)
	update func(models.ProfileUpdate) (models.UserProfile, error)
	upload func(apiclient.File) (string, error)

	summary   func() (models.ReferralSummary, error)
	referrals func(domain.Pagination) (models.Page[models.Referral], error)
}

func (f *fakeAPI) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeAPI) Login(_ context.Context, email, password string) (apiclient.LoginResult, error) {
	f.record("login")
	if f.login == nil {
		return apiclient.LoginResult{AccessToken: "tok"}, nil
	}
	return f.login(email, password)
}

func (f *fakeAPI) Signup(_ context.Context, req apiclient.SignupRequest) error {
	f.record("signup")
	if f.signup == nil {
		return nil
	}
	return f.signup(req)
}

func (f *fakeAPI) VerifyOTP(_ context.Context, email, otp string) error {
	f.record("verify_otp")
	if f.verifyOTP == nil {
		return nil
	}
	return f.verifyOTP(email, otp)
}

func (f *fakeAPI) ResendOTP(_ context.Context, email string) error {
	f.record("resend_otp")
	if f.resendOTP == nil {
		return nil
	}
	return f.resendOTP(email)
}

func (f *fakeAPI) ForgotPassword(_ context.Context, email string) error {
	f.record("forgot_password")
	if f.forgotPassword == nil {
		return nil
	}
	return f.forgotPassword(email)
}

func (f *fakeAPI) ResetPassword(_ context.Context, email, otp, pw string) error {
	f.record("reset_password")
	if f.resetPassword == nil {
		return nil
	}
	return f.resetPassword(email, otp, pw)
}

func (f *fakeAPI) Logout(_ context.Context, token string) error {
	f.record("logout")
	if f.logout == nil {
		return nil
	}
	return f.logout(token)
}

func (f *fakeAPI) SearchVehicles(_ context.Context, search string, p domain.Pagination) (models.Page[models.Vehicle], error) {
	f.record("search:" + search)
	return models.Page[models.Vehicle]{Number: p.Page, Size: p.Size, Last: true}, nil
}

func (f *fakeAPI) Vehicle(_ context.Context, id string) (models.Vehicle, error) {
	f.record("vehicle")
	return models.Vehicle{ID: id}, nil
}

func (f *fakeAPI) CalculatePrice(_ context.Context, _ string, req models.EstimateRequest) (models.PriceEstimate, error) {
	f.record("calculate")
	if f.calculate == nil {
		return models.PriceEstimate{Currency: "NGN", TotalPrice: 25000}, nil
	}
	return f.calculate(req)
}

func (f *fakeAPI) CreateBooking(_ context.Context, _ string, req models.BookingRequest) (models.Booking, error) {
	f.record("create_booking")
	if f.createBooking == nil {
		return models.Booking{ID: "bk-1", Status: "pending_payment"}, nil
	}
	return f.createBooking(req)
}

func (f *fakeAPI) ListBookings(_ context.Context, _ string, p domain.Pagination) (models.Page[models.Booking], error) {
	f.record("list_bookings")
	if f.listBookings == nil {
		return models.Page[models.Booking]{Number: p.Page, Last: true}, nil
	}
	return f.listBookings(p)
}

func (f *fakeAPI) GetBooking(_ context.Context, _ string, id string) (models.Booking, error) {
	f.record("get_booking")
	if f.getBooking == nil {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return f.getBooking(id)
}

func (f *fakeAPI) CancelBooking(_ context.Context, _ string, id string) error {
	f.record("cancel_booking")
	if f.cancelBooking == nil {
		return nil
	}
	return f.cancelBooking(id)
}

func (f *fakeAPI) InitiatePaystack(_ context.Context, _ string, bookingID, callback string) (models.Checkout, error) {
	f.record("paystack")
	if f.paystack == nil {
		return models.Checkout{Gateway: domain.GatewayPaystack, BookingID: bookingID, RedirectURL: "https://checkout.paystack.com/abc"}, nil
	}
	return f.paystack(bookingID, callback)
}

func (f *fakeAPI) InitializeMonnify(_ context.Context, _ string, bookingID, callback string) (models.Checkout, error) {
	f.record("monnify")
	if f.monnify == nil {
		return models.Checkout{Gateway: domain.GatewayMonnify, BookingID: bookingID, RedirectURL: "https://sandbox.monnify.com/checkout/xyz"}, nil
	}
	return f.monnify(bookingID, callback)
}

func (f *fakeAPI) VerifyPayment(_ context.Context, _ string, reference string) (models.Payment, error) {
	f.record("verify_payment")
	if f.verify == nil {
		return models.Payment{Reference: reference, Status: "successful"}, nil
	}
	return f.verify(reference)
}

func (f *fakeAPI) ListNotifications(_ context.Context, _ string, p domain.Pagination) (models.Page[models.Notification], error) {
	f.record("list_notifications")
	if f.listNotifications == nil {
		return models.Page[models.Notification]{Number: p.Page, Last: true}, nil
	}
	return f.listNotifications(p)
}

func (f *fakeAPI) UnreadNotifications(context.Context, string) (int, error) {
	f.record("unread")
	if f.unread == nil {
		return 0, nil
	}
	return f.unread()
}

func (f *fakeAPI) MarkNotificationRead(context.Context, string, string) error {
	f.record("mark_read")
	return nil
}

func (f *fakeAPI) DeleteNotification(context.Context, string, string) error {
	f.record("delete_notification")
	return nil
}

func (f *fakeAPI) DeleteNotifications(_ context.Context, _ string, ids []string) error {
	f.record("delete_notifications")
	if f.deleteMany == nil {
		return nil
	}
	return f.deleteMany(ids)
}

func (f *fakeAPI) Me(context.Context, string) (models.UserProfile, error) {
	f.record("me")
	if f.me == nil {
		return models.UserProfile{ID: "u1"}, nil
	}
	return f.me()
}

func (f *fakeAPI) UpdateMe(_ context.Context, _ string, upd models.ProfileUpdate) (models.UserProfile, error) {
	f.record("update_me")
	if f.update == nil {
		return models.UserProfile{ID: "u1"}, nil
	}
	return f.update(upd)
}

func (f *fakeAPI) UploadProfilePicture(_ context.Context, _ string, file apiclient.File) (string, error) {
	f.record("upload")
	if f.upload == nil {
		return "https://cdn.example.com/" + file.Name, nil
	}
	return f.upload(file)
}

func (f *fakeAPI) ReferralSummary(context.Context, string) (models.ReferralSummary, error) {
	f.record("referral_summary")
	if f.summary == nil {
		return models.ReferralSummary{}, nil
	}
	return f.summary()
}

func (f *fakeAPI) ListReferrals(_ context.Context, _ string, p domain.Pagination) (models.Page[models.Referral], error) {
	f.record("referrals")
	if f.referrals == nil {
		return models.Page[models.Referral]{Number: p.Page, Last: true}, nil
	}
	return f.referrals(p)
}

// memDrafts is an in-memory Drafts.
type memDrafts map[string]string

func (m memDrafts) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memDrafts) Set(key, value string) { m[key] = value }

func (m memDrafts) Delete(keys ...string) {
	for _, k := range keys {
		delete(m, k)
	}
}

var signedIn = domain.RequestContext{UserID: "u1", Email: "ada@example.com", AccessToken: "tok"}
