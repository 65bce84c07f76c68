package apiclient

import (
	"context"
	"net/http"

	"rentalweb/internal/domain/models"
)

type LoginResult struct {
	AccessToken string
	User        models.UserProfile
}

type SignupRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phoneNumber"`
	Password     string `json:"password"`
	ReferralCode string `json:"referralCode,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	res, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return LoginResult{}, err
	}
	data := res.Data()
	out := LoginResult{
		AccessToken: firstString(data, "accessToken", "access_token", "token"),
	}
	if u := data.Get("user"); u.Exists() {
		if err := decodeResult(u, &out.User); err != nil {
			return LoginResult{}, err
		}
	}
	if out.AccessToken == "" {
		return LoginResult{}, errMissing("access token")
	}
	return out, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/auth/signup", Body: req})
	return err
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/verify-otp",
		Body:   map[string]string{"email": email, "otp": otp},
	})
	return err
}

func (c *Client) ResendOTP(ctx context.Context, email string) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/resend-otp",
		Body:   map[string]string{"email": email},
	})
	return err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/forgot-password",
		Body:   map[string]string{"email": email},
	})
	return err
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/reset-password",
		Body:   map[string]string{"email": email, "otp": otp, "newPassword": newPassword},
	})
	return err
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/auth/logout", Token: token})
	return err
}
