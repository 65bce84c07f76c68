package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultCookieName = "rw_session"
	contextKey        = "session"
)

// Manager binds a Store to HTTP requests through a signed cookie holding the session id.
type Manager struct {
	Store      Store
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
	Now        func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		Store:      store,
		Secret:     []byte(secret),
		TTL:        ttl,
		CookieName: DefaultCookieName,
		Secure:     secure,
		Now:        time.Now,
	}
}

// Middleware loads (or starts) the session, refreshes the cookie, and saves the session after the handler.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithoutCancel(c.Request.Context())
		sess := m.load(c)
		sess.ExpiresAt = m.Now().Add(m.TTL)
		m.writeCookie(c, sess)
		c.Set(contextKey, sess)

		c.Next()

		current := From(c)
		if current == nil || current.ID == "" {
			return
		}
		// sliding expiry is persisted even when nothing else changed
		if err := m.Store.Save(ctx, current); err != nil {
			utils.LogError(c.GetString("request_id"), "session", "save", err)
			return
		}
		current.clean()
	}
}

func (m *Manager) load(c *gin.Context) *Session {
	if raw, err := c.Cookie(m.CookieName); err == nil && raw != "" {
		if id, err := m.parseToken(raw); err == nil {
			sess, err := m.Store.Get(c.Request.Context(), id)
			if err == nil {
				return sess
			}
			if !errors.Is(err, ErrNotFound) {
				utils.LogError(c.GetString("request_id"), "session", "load", err)
			}
		}
	}
	return newSession(uuid.NewString(), m.Now().Add(m.TTL))
}

// Regenerate moves the current session to a fresh id (on sign-in) and drops the old one.
func (m *Manager) Regenerate(c *gin.Context) *Session {
	sess := From(c)
	if sess == nil {
		sess = newSession(uuid.NewString(), m.Now().Add(m.TTL))
	} else {
		old := sess.ID
		sess.ID = uuid.NewString()
		sess.MarkDirty()
		if err := m.Store.Delete(c.Request.Context(), old); err != nil {
			utils.LogError(c.GetString("request_id"), "session", "regenerate", err)
		}
	}
	m.writeCookie(c, sess)
	c.Set(contextKey, sess)
	return sess
}

// Destroy deletes the stored session and replaces it with an empty one that keeps flashes.
func (m *Manager) Destroy(c *gin.Context) *Session {
	var flashes []Flash
	if sess := From(c); sess != nil {
		flashes = sess.Flashes
		if err := m.Store.Delete(c.Request.Context(), sess.ID); err != nil {
			utils.LogError(c.GetString("request_id"), "session", "destroy", err)
		}
	}
	fresh := newSession(uuid.NewString(), m.Now().Add(m.TTL))
	fresh.Flashes = flashes
	m.writeCookie(c, fresh)
	c.Set(contextKey, fresh)
	return fresh
}

func (m *Manager) writeCookie(c *gin.Context, sess *Session) {
	token, err := m.signToken(sess.ID, sess.ExpiresAt)
	if err != nil {
		utils.LogError(c.GetString("request_id"), "session", "sign", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.CookieName, token, int(m.TTL.Seconds()), "/", "", m.Secure, true)
}

type cookieClaims struct {
	jwt.RegisteredClaims
}

func (m *Manager) signToken(id string, expires time.Time) (string, error) {
	claims := cookieClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(m.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

func (m *Manager) parseToken(raw string) (string, error) {
	var claims cookieClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.Now))
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("session cookie without id")
	}
	return claims.ID, nil
}

// From returns the request's session, or nil outside the middleware.
func From(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}

// Purge removes expired sessions from the store.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	return m.Store.DeleteExpired(ctx, m.Now())
}
