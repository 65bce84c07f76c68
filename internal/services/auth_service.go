package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/utils"
	"rentalweb/internal/validation"
)

// Pending flows an OTP can belong to.
const (
	FlowVerify = "verify"
	FlowReset  = "reset"
)

const DefaultOTPCooldown = 60 * time.Second

// ErrNeedsVerification is returned by Login when the account exists but its email is unverified.
// A fresh code has been requested by the time it is returned.
var ErrNeedsVerification = errors.New("please verify your email address to continue")

// CooldownError refuses an OTP resend that came too soon after the previous one.
type CooldownError struct {
	Remaining time.Duration
}

func (e CooldownError) Seconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}

func (e CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new code", e.Seconds())
}

type AuthService struct {
	API       AuthAPI
	Cooldown  time.Duration
	Now       func() time.Time
	RequestID string
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,rw_email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

type SignupForm struct {
	FirstName    string `form:"first_name" validate:"required,max=60"`
	LastName     string `form:"last_name" validate:"required,max=60"`
	Email        string `form:"email" validate:"required,rw_email"`
	Phone        string `form:"phone" validate:"required,rw_phone"`
	Password     string `form:"password" validate:"required,rw_password"`
	Confirm      string `form:"confirm_password" validate:"required,eqfield=Password"`
	ReferralCode string `form:"referral_code" validate:"omitempty,max=32,alphanum"`
}

// OTPForm accepts either the six single-digit boxes or one combined field.
type OTPForm struct {
	OTP  string `form:"otp"`
	Box1 string `form:"otp1"`
	Box2 string `form:"otp2"`
	Box3 string `form:"otp3"`
	Box4 string `form:"otp4"`
	Box5 string `form:"otp5"`
	Box6 string `form:"otp6"`
}

func (f OTPForm) Code() string {
	if otp := strings.TrimSpace(f.OTP); otp != "" {
		return otp
	}
	return validation.JoinOTP([]string{f.Box1, f.Box2, f.Box3, f.Box4, f.Box5, f.Box6})
}

type ForgotForm struct {
	Email string `form:"email" validate:"required,rw_email"`
}

type ResetForm struct {
	OTPForm
	Password string `form:"password" validate:"required,rw_password"`
	Confirm  string `form:"confirm_password" validate:"required,eqfield=Password"`
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) cooldown() time.Duration {
	if s.Cooldown > 0 {
		return s.Cooldown
	}
	return DefaultOTPCooldown
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s AuthService) Login(ctx context.Context, f LoginForm) (apiclient.LoginResult, error) {
	f.Email = normalizeEmail(f.Email)
	if err := validation.Struct(f); err != nil {
		return apiclient.LoginResult{}, err
	}

	res, err := s.API.Login(ctx, f.Email, f.Password)
	if errors.Is(err, apiclient.ErrEmailNotVerified) {
		if rerr := s.API.ResendOTP(ctx, f.Email); rerr != nil {
			utils.LogError(s.RequestID, "auth", "login_resend_otp", rerr)
		}
		utils.LogEvent(s.RequestID, "auth", "login_unverified", "email="+utils.MaskEmail(f.Email))
		return apiclient.LoginResult{}, ErrNeedsVerification
	}
	if err != nil {
		return apiclient.LoginResult{}, err
	}
	if res.User.Email == "" {
		res.User.Email = f.Email
	}
	utils.LogEvent(s.RequestID, "auth", "login", "email="+utils.MaskEmail(f.Email))
	return res, nil
}

func (s AuthService) Signup(ctx context.Context, f SignupForm) (string, error) {
	f.Email = normalizeEmail(f.Email)
	f.FirstName = utils.NormalizeSpace(f.FirstName)
	f.LastName = utils.NormalizeSpace(f.LastName)
	f.ReferralCode = strings.ToUpper(strings.TrimSpace(f.ReferralCode))
	if err := validation.Struct(f); err != nil {
		return "", err
	}

	err := s.API.Signup(ctx, apiclient.SignupRequest{
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Email:        f.Email,
		Phone:        validation.NormalizePhone(f.Phone),
		Password:     f.Password,
		ReferralCode: f.ReferralCode,
	})
	if err != nil {
		return "", err
	}
	utils.LogEvent(s.RequestID, "auth", "signup", "email="+utils.MaskEmail(f.Email))
	return f.Email, nil
}

func (s AuthService) VerifyOTP(ctx context.Context, email string, f OTPForm) error {
	if email == "" {
		return domain.ValidationError{Field: "email", Msg: "no verification in progress"}
	}
	code := f.Code()
	if !validation.ValidOTP(code) {
		return domain.ValidationError{Field: "otp", Msg: "must be exactly 6 digits"}
	}
	if err := s.API.VerifyOTP(ctx, email, code); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "auth", "verify_otp", "email="+utils.MaskEmail(email))
	return nil
}

// CooldownRemaining is how long the visitor must still wait before another code may be sent.
func (s AuthService) CooldownRemaining(sentAt time.Time) time.Duration {
	if sentAt.IsZero() {
		return 0
	}
	left := sentAt.Add(s.cooldown()).Sub(s.now())
	if left < 0 {
		return 0
	}
	return left
}

// ResendOTP asks the API for a new code for the pending flow and returns the new send time.
func (s AuthService) ResendOTP(ctx context.Context, email, flow string, sentAt time.Time) (time.Time, error) {
	if email == "" {
		return sentAt, domain.ValidationError{Field: "email", Msg: "no verification in progress"}
	}
	if left := s.CooldownRemaining(sentAt); left > 0 {
		return sentAt, CooldownError{Remaining: left}
	}

	var err error
	if flow == FlowReset {
		err = s.API.ForgotPassword(ctx, email)
	} else {
		err = s.API.ResendOTP(ctx, email)
	}
	if err != nil {
		return sentAt, err
	}
	utils.LogEvent(s.RequestID, "auth", "resend_otp", "flow="+flow+" email="+utils.MaskEmail(email))
	return s.now(), nil
}

func (s AuthService) ForgotPassword(ctx context.Context, f ForgotForm) (string, error) {
	f.Email = normalizeEmail(f.Email)
	if err := validation.Struct(f); err != nil {
		return "", err
	}
	if err := s.API.ForgotPassword(ctx, f.Email); err != nil {
		return "", err
	}
	utils.LogEvent(s.RequestID, "auth", "forgot_password", "email="+utils.MaskEmail(f.Email))
	return f.Email, nil
}

func (s AuthService) ResetPassword(ctx context.Context, email string, f ResetForm) error {
	if email == "" {
		return domain.ValidationError{Field: "email", Msg: "no password reset in progress"}
	}
	var errs domain.FieldErrors
	code := f.Code()
	if !validation.ValidOTP(code) {
		errs = append(errs, domain.ValidationError{Field: "otp", Msg: "must be exactly 6 digits"})
	}
	if err := validation.Struct(f); err != nil {
		var fe domain.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		errs = append(errs, fe...)
	}
	if len(errs) > 0 {
		return errs
	}

	if err := s.API.ResetPassword(ctx, email, code, f.Password); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "auth", "reset_password", "email="+utils.MaskEmail(email))
	return nil
}

// Logout revokes the API token. Failures are logged and otherwise ignored.
func (s AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.API.Logout(ctx, token); err != nil {
		utils.LogError(s.RequestID, "auth", "logout", err)
		return
	}
	utils.LogEvent(s.RequestID, "auth", "logout", "")
}
