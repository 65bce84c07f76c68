package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDGeneratedAndForwarded(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var fromCtx string
	r.GET("/x", func(c *gin.Context) {
		fromCtx = apiclient.RequestIDFrom(c.Request.Context())
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	rid := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, rid)
	assert.Equal(t, rid, w.Body.String())
	assert.Equal(t, rid, fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func authRouter(signedIn bool) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		sess := &session.Session{Values: map[string]string{}}
		if signedIn {
			sess.SignIn("u1", "ada@example.com", "Ada", "tok")
		}
		c.Set("session", sess)
	})
	protected := r.Group("", RequireAuth())
	protected.GET("/bookings", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	protected.GET("/api/notifications/more", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestRequireAuth(t *testing.T) {
	w := httptest.NewRecorder()
	authRouter(false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings?page=2", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fbookings%3Fpage%3D2", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	authRouter(false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notifications/more", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	authRouter(true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))

	now = now.Add(time.Second)
	assert.True(t, rl.allow("1.1.1.1"))

	now = now.Add(limiterIdle + time.Second)
	rl.allow("3.3.3.3")
	assert.Len(t, rl.clients, 1)
}

func TestRateLimitMiddlewareAPI(t *testing.T) {
	r := gin.New()
	r.GET("/api/places/autocomplete", NewRateLimiter(0.001, 1).Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/places/autocomplete", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddlewarePageStaysOnSite(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewRateLimiter(0.001, 1).Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	send := func(referer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "http://rent.test/login", nil)
		if referer != "" {
			req.Header.Set("Referer", referer)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, send("").Code)

	w := send("https://evil.example/phish")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	w = send("http://rent.test/login?next=%2Fbookings")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fbookings", w.Header().Get("Location"))

	w = send("http://rent.test.evil.example/x")
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
