package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"rentalweb/internal/session"

	"github.com/gin-gonic/gin"
)

// RequireAuth lets signed-in visitors through. Pages redirect to the login
// form with a return path; JSON endpoints under /api get a 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.From(c).Authenticated() {
			c.Next()
			return
		}
		if IsAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "please sign in to continue",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Redirect(http.StatusSeeOther, LoginPath(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginPath is the login URL that returns to next after signing in.
func LoginPath(next string) string {
	if next == "" || next == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

func IsAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
