// Package validation holds the form rules shared by every page.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"rentalweb/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	otpRe   = regexp.MustCompile(`^[0-9]{6}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

const (
	OTPLength         = 6
	MinPasswordLength = 8
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("rw_email", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("rw_password", func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})
	_ = v.RegisterValidation("rw_otp", func(fl validator.FieldLevel) bool {
		return ValidOTP(fl.Field().String())
	})
	_ = v.RegisterValidation("rw_phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

func ValidOTP(s string) bool {
	return otpRe.MatchString(s)
}

// ValidPhone accepts an optional leading + and 10-15 digits; spaces and dashes are ignored.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(NormalizePhone(s))
}

func NormalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(s))
}

// PasswordProblem describes the first unmet password rule, or "" if the password is acceptable.
func PasswordProblem(pw string) string {
	if len(pw) < MinPasswordLength {
		return "must be at least 8 characters"
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	switch {
	case !upper:
		return "must contain an uppercase letter"
	case !lower:
		return "must contain a lowercase letter"
	case !digit:
		return "must contain a digit"
	case !special:
		return "must contain a special character"
	}
	return ""
}

// JoinOTP concatenates the six single-digit boxes of the OTP form.
func JoinOTP(boxes []string) string {
	var b strings.Builder
	for _, d := range boxes {
		b.WriteString(strings.TrimSpace(d))
	}
	return b.String()
}

// Struct validates v against its `validate` tags and returns domain.FieldErrors on failure.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InternalError{Msg: "validation failed", Err: err}
	}
	out := make(domain.FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.ValidationError{Field: fe.Field(), Msg: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "rw_email", "email":
		return "must be a valid email address"
	case "rw_password":
		return PasswordProblem(fe.Value().(string))
	case "rw_otp":
		return "must be exactly 6 digits"
	case "rw_phone":
		return "must be a valid phone number"
	case "eqfield":
		return "does not match"
	case "max":
		return "is too long"
	case "min":
		return "is too short"
	case "oneof":
		return "is not a valid choice"
	default:
		return "is invalid"
	}
}
