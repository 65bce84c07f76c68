package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = domain.UserMessage(err)
	}
	c.JSON(status, payload)
}

// bindForm decodes the posted body into dst. A body that cannot be decoded
// becomes a form-level ValidationError; field rules are checked later by the services.
func bindForm(c *gin.Context, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		return domain.ValidationError{Msg: "the form could not be read, please try again", Err: err}
	}
	return nil
}

// render adds the layout fields every page needs and writes the template.
func render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	if s := sess(c); s != nil {
		if s.Authenticated() {
			data["User"] = s.DisplayName
			if s.DisplayName == "" {
				data["User"] = s.Email
			}
		}
		data["Flashes"] = s.TakeFlashes()
	}
	c.HTML(status, name, data)
}

func flash(c *gin.Context, kind, message string) {
	if s := sess(c); s != nil {
		s.AddFlash(kind, message)
	}
}

func redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusSeeOther, to)
}

// pageParam reads ?page= as a zero-based page index.
func pageParam(c *gin.Context) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// pageNav feeds the "pagination" partial.
type pageNav struct {
	Number     int
	TotalPages int
	HasNext    bool
	Prev       int
	Next       int
	Search     string
}

func navFor[T any](p models.Page[T], search string) pageNav {
	return pageNav{
		Number:     p.Number,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext(),
		Prev:       p.Number - 1,
		Next:       p.Number + 1,
		Search:     search,
	}
}
