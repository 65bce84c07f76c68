package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSessionValuesAndFlashes(t *testing.T) {
	s := newSession("id-1", time.Now().Add(time.Hour))
	s.clean()

	s.Set("booking_itinerary_v1", "{}")
	s.Set("booking_step_v1", "1")
	s.Set("other", "x")
	assert.True(t, s.Dirty())

	s.Delete("booking_itinerary_v1", "booking_step_v1")
	_, ok := s.Get("booking_step_v1")
	assert.False(t, ok)
	v, ok := s.Get("other")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	s.AddFlash(FlashError, "boom")
	s.AddFlash(FlashInfo, "  ")
	fl := s.TakeFlashes()
	require.Len(t, fl, 1)
	assert.Equal(t, "boom", fl[0].Message)
	assert.Empty(t, s.TakeFlashes())
}

func TestSignOutKeepsFlashes(t *testing.T) {
	s := newSession("id-1", time.Now().Add(time.Hour))
	s.SignIn("u1", "ada@example.com", "Ada", "tok")
	s.Set("k", "v")
	s.AddFlash(FlashSuccess, "bye")
	s.SignOut()

	assert.False(t, s.Authenticated())
	assert.Equal(t, "id-1", s.ID)
	assert.Empty(t, s.Values)
	require.Len(t, s.Flashes, 1)
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	live := newSession("live", now.Add(time.Hour))
	live.Set("a", "1")
	dead := newSession("dead", now.Add(-time.Minute))
	require.NoError(t, m.Save(ctx, live))
	require.NoError(t, m.Save(ctx, dead))

	got, err := m.Get(ctx, "live")
	require.NoError(t, err)
	v, _ := got.Get("a")
	assert.Equal(t, "1", v)

	_, err = m.Get(ctx, "dead")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := m.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, m.Len())
}

func newTestRouter(m *Manager, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", h)
	return r
}

func TestManagerRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testSecret, time.Hour, false)

	r := newTestRouter(m, func(c *gin.Context) {
		s := From(c)
		n, _ := s.Get("visits")
		s.Set("visits", n+"I")
		c.String(http.StatusOK, n+"I")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "I", rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "II", rec.Body.String())
	assert.Equal(t, 1, store.Len())
}

func TestManagerRejectsForgedCookie(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testSecret, time.Hour, false)
	other := NewManager(store, "ffffffffffffffffffffffffffffffff", time.Hour, false)

	victim := newSession("victim", time.Now().Add(time.Hour))
	victim.SignIn("u1", "ada@example.com", "Ada", "tok")
	require.NoError(t, store.Save(context.Background(), victim))

	forged, err := other.signToken("victim", time.Now().Add(time.Hour))
	require.NoError(t, err)

	var seen *Session
	r := newTestRouter(m, func(c *gin.Context) {
		seen = From(c)
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: forged})
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.NotEqual(t, "victim", seen.ID)
	assert.False(t, seen.Authenticated())
}

func TestManagerRegenerateDropsOldID(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testSecret, time.Hour, false)

	var firstID, secondID string
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/first", func(c *gin.Context) {
		firstID = From(c).ID
		c.Status(http.StatusOK)
	})
	r.GET("/login", func(c *gin.Context) {
		s := m.Regenerate(c)
		s.SignIn("u1", "ada@example.com", "Ada", "tok")
		secondID = s.ID
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/first", nil))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, secondID)
	assert.NotEqual(t, firstID, secondID)
	_, err := store.Get(context.Background(), firstID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := store.Get(context.Background(), secondID)
	require.NoError(t, err)
	assert.True(t, got.Authenticated())
}

func TestSweeperPurges(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, testSecret, time.Hour, false)
	require.NoError(t, store.Save(context.Background(), newSession("old", time.Now().Add(-time.Hour))))

	sw, err := NewSweeper(m, "@every 1h")
	require.NoError(t, err)
	sw.run()
	assert.Equal(t, 0, store.Len())

	_, err = NewSweeper(m, "not a spec")
	assert.Error(t, err)
}
