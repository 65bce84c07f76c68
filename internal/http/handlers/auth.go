package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"rentalweb/internal/services"
	"rentalweb/internal/session"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

func LoginPage(c *gin.Context) {
	if sess(c).Authenticated() {
		redirect(c, utils.SafeRedirect(c.Query("next"), "/bookings"))
		return
	}
	render(c, http.StatusOK, "login", "Sign in", gin.H{
		"Form": services.LoginForm{Next: c.Query("next")},
	})
}

func Login(c *gin.Context) {
	var form services.LoginForm
	if err := bindForm(c, &form); err != nil {
		failForm(c, err, "login", "Sign in", gin.H{"Form": services.LoginForm{Next: form.Next}})
		return
	}
	form.Next = utils.SafeRedirect(form.Next, "/bookings")

	res, err := authService(c).Login(c.Request.Context(), form)
	if errors.Is(err, services.ErrNeedsVerification) {
		s := sess(c)
		s.PendingEmail = strings.ToLower(strings.TrimSpace(form.Email))
		s.PendingFlow = services.FlowVerify
		s.OTPSentAt = current().now()
		s.MarkDirty()
		flash(c, session.FlashInfo, "Please verify your email. We sent you a new code.")
		redirect(c, "/verify-otp")
		return
	}
	if err != nil {
		form.Password = ""
		failForm(c, err, "login", "Sign in", gin.H{"Form": form})
		return
	}

	s := current().Sessions.Regenerate(c)
	s.SignIn(res.User.ID, res.User.Email, res.User.DisplayName(), res.AccessToken)
	s.AddFlash(session.FlashSuccess, "Welcome back, "+res.User.DisplayName()+".")
	redirect(c, form.Next)
}

func SignupPage(c *gin.Context) {
	render(c, http.StatusOK, "signup", "Create account", gin.H{
		"Form": services.SignupForm{ReferralCode: strings.TrimSpace(c.Query("ref"))},
	})
}

func Signup(c *gin.Context) {
	var form services.SignupForm
	email, err := "", bindForm(c, &form)
	if err == nil {
		email, err = authService(c).Signup(c.Request.Context(), form)
	}
	if err != nil {
		form.Password, form.Confirm = "", ""
		failForm(c, err, "signup", "Create account", gin.H{"Form": form})
		return
	}

	s := sess(c)
	s.PendingEmail = email
	s.PendingFlow = services.FlowVerify
	s.OTPSentAt = current().now()
	s.MarkDirty()
	flash(c, session.FlashSuccess, "Account created. Enter the code we emailed you.")
	redirect(c, "/verify-otp")
}

func otpPageData(c *gin.Context) gin.H {
	s := sess(c)
	left := authService(c).CooldownRemaining(s.OTPSentAt)
	return gin.H{
		"Flow":        s.PendingFlow,
		"MaskedEmail": utils.MaskEmail(s.PendingEmail),
		"Cooldown":    services.CooldownError{Remaining: left}.Seconds(),
	}
}

func VerifyOTPPage(c *gin.Context) {
	s := sess(c)
	if s.PendingEmail == "" {
		redirect(c, "/login")
		return
	}
	if s.PendingFlow == services.FlowReset {
		redirect(c, "/reset-password")
		return
	}
	render(c, http.StatusOK, "verify_otp", "Verify email", otpPageData(c))
}

func VerifyOTP(c *gin.Context) {
	var form services.OTPForm
	bindErr := bindForm(c, &form)

	s := sess(c)
	if s.PendingEmail == "" {
		flash(c, session.FlashError, "Your verification has expired. Please sign in again.")
		redirect(c, "/login")
		return
	}
	if bindErr != nil {
		failForm(c, bindErr, "verify_otp", "Verify email", otpPageData(c))
		return
	}
	if err := authService(c).VerifyOTP(c.Request.Context(), s.PendingEmail, form); err != nil {
		failForm(c, err, "verify_otp", "Verify email", otpPageData(c))
		return
	}

	s.PendingEmail = ""
	s.PendingFlow = ""
	s.OTPSentAt = time.Time{}
	s.MarkDirty()
	flash(c, session.FlashSuccess, "Email verified. You can sign in now.")
	redirect(c, "/login")
}

// ResendOTP serves both the verification and the password reset pages.
func ResendOTP(c *gin.Context) {
	s := sess(c)
	back := "/verify-otp"
	if s.PendingFlow == services.FlowReset {
		back = "/reset-password"
	}
	sentAt, err := authService(c).ResendOTP(c.Request.Context(), s.PendingEmail, s.PendingFlow, s.OTPSentAt)
	if err != nil {
		if s.PendingEmail == "" {
			back = "/login"
		}
		failRedirect(c, err, back)
		return
	}
	s.OTPSentAt = sentAt
	s.MarkDirty()
	flash(c, session.FlashSuccess, "A new code is on its way.")
	redirect(c, back)
}

func ForgotPasswordPage(c *gin.Context) {
	render(c, http.StatusOK, "forgot_password", "Forgot password", gin.H{"Form": services.ForgotForm{}})
}

func ForgotPassword(c *gin.Context) {
	var form services.ForgotForm
	email, err := "", bindForm(c, &form)
	if err == nil {
		email, err = authService(c).ForgotPassword(c.Request.Context(), form)
	}
	if err != nil {
		failForm(c, err, "forgot_password", "Forgot password", gin.H{"Form": form})
		return
	}
	s := sess(c)
	s.PendingEmail = email
	s.PendingFlow = services.FlowReset
	s.OTPSentAt = current().now()
	s.MarkDirty()
	flash(c, session.FlashSuccess, "If the address is registered, a reset code has been sent.")
	redirect(c, "/reset-password")
}

func ResetPasswordPage(c *gin.Context) {
	s := sess(c)
	if s.PendingEmail == "" || s.PendingFlow != services.FlowReset {
		redirect(c, "/forgot-password")
		return
	}
	render(c, http.StatusOK, "reset_password", "Reset password", otpPageData(c))
}

func ResetPassword(c *gin.Context) {
	var form services.ResetForm
	bindErr := bindForm(c, &form)

	s := sess(c)
	if s.PendingEmail == "" || s.PendingFlow != services.FlowReset {
		flash(c, session.FlashError, "Your reset request has expired. Please start again.")
		redirect(c, "/forgot-password")
		return
	}
	if bindErr != nil {
		failForm(c, bindErr, "reset_password", "Reset password", otpPageData(c))
		return
	}
	if err := authService(c).ResetPassword(c.Request.Context(), s.PendingEmail, form); err != nil {
		failForm(c, err, "reset_password", "Reset password", otpPageData(c))
		return
	}

	s.PendingEmail = ""
	s.PendingFlow = ""
	s.OTPSentAt = time.Time{}
	s.MarkDirty()
	flash(c, session.FlashSuccess, "Password updated. Sign in with your new password.")
	redirect(c, "/login")
}

func Logout(c *gin.Context) {
	d := current()
	authService(c).Logout(c.Request.Context(), sess(c).AccessToken)
	d.Sessions.Destroy(c)
	flash(c, session.FlashInfo, "You have been signed out.")
	redirect(c, "/")
}
