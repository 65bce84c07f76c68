package handlers

import (
	"errors"
	"net/http"

	"rentalweb/internal/domain"
	"rentalweb/internal/http/middleware"
	"rentalweb/internal/services"
	"rentalweb/internal/session"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads for JSON endpoints.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) (int, string) {
	var cd services.CooldownError
	switch {
	case errors.As(err, &cd):
		return http.StatusTooManyRequests, "cooldown"
	case domain.IsValidation(err):
		return http.StatusBadRequest, "validation_error"
	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, "unauthorized"
	case domain.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case domain.IsConflict(err):
		return http.StatusConflict, "conflict"
	case domain.IsUpstream(err):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// RespondDomainError maps domain errors to JSON responses.
func RespondDomainError(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		utils.LogError(middleware.GetRequestID(c), "http", c.FullPath(), err)
	}
	var details any
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		details = fe.ByField()
	}
	respondError(c, status, code, domain.UserMessage(err), details)
}

// fieldErrors extracts per-field messages for re-rendering a form.
func fieldErrors(err error) map[string]string {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		return fe.ByField()
	}
	var ve domain.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		return map[string]string{ve.Field: ve.Msg}
	}
	return map[string]string{}
}

// loginRejected reports whether err means the API refused a login this session still holds.
// Anonymous callers, such as a failed sign-in, get the ordinary error handling.
func loginRejected(c *gin.Context, err error) bool {
	if !domain.IsUnauthorized(err) {
		return false
	}
	s := sess(c)
	return s != nil && s.Authenticated()
}

// expireLogin ends a login the API no longer accepts and sends the visitor to sign in again.
func expireLogin(c *gin.Context, back string) {
	if s := sess(c); s != nil {
		s.SignOut()
		s.AddFlash(session.FlashError, "Your session has expired. Please sign in again.")
	}
	redirect(c, middleware.LoginPath(back))
}

// failRedirect flashes err and redirects to fallback.
func failRedirect(c *gin.Context, err error, fallback string) {
	if loginRejected(c, err) {
		expireLogin(c, fallback)
		return
	}
	logIfServerSide(c, err)
	flash(c, session.FlashError, domain.UserMessage(err))
	redirect(c, fallback)
}

// failForm re-renders a form page with the submitted values, field messages and a flash.
func failForm(c *gin.Context, err error, name, title string, data gin.H) {
	if loginRejected(c, err) {
		expireLogin(c, c.Request.URL.RequestURI())
		return
	}
	logIfServerSide(c, err)
	fields := fieldErrors(err)
	if len(fields) > 0 {
		flash(c, session.FlashError, "Please correct the highlighted fields.")
	} else {
		flash(c, session.FlashError, domain.UserMessage(err))
	}
	if data == nil {
		data = gin.H{}
	}
	data["Errors"] = fields
	status, _ := statusFor(err)
	render(c, status, name, title, data)
}

// failPage renders the error page. Not-found and unauthorized get their own treatment.
func failPage(c *gin.Context, err error) {
	if loginRejected(c, err) {
		expireLogin(c, c.Request.URL.RequestURI())
		return
	}
	logIfServerSide(c, err)
	status, _ := statusFor(err)
	title := "Something went wrong"
	if status == http.StatusNotFound {
		title = "Not found"
	}
	render(c, status, "error", title, gin.H{"Message": domain.UserMessage(err)})
}

func logIfServerSide(c *gin.Context, err error) {
	if status, _ := statusFor(err); status >= http.StatusInternalServerError {
		utils.LogError(middleware.GetRequestID(c), "http", c.Request.Method+" "+c.FullPath(), err)
	}
}
