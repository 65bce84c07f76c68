// Package session keeps per-visitor state on the server: login token, wizard drafts,
// OTP bookkeeping and flash messages.
package session

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by stores for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Session struct {
	ID string `json:"-"`

	UserID      string `json:"userId,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`

	// PendingEmail is the address waiting for OTP verification or a password reset.
	PendingEmail string    `json:"pendingEmail,omitempty"`
	PendingFlow  string    `json:"pendingFlow,omitempty"`
	OTPSentAt    time.Time `json:"otpSentAt,omitempty"`

	Values    map[string]string `json:"values,omitempty"`
	Flashes   []Flash           `json:"flashes,omitempty"`
	ExpiresAt time.Time         `json:"expiresAt"`

	dirty bool
}

func newSession(id string, expires time.Time) *Session {
	return &Session{ID: id, Values: map[string]string{}, ExpiresAt: expires, dirty: true}
}

func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// SignIn records the API token and identity of the customer.
func (s *Session) SignIn(userID, email, displayName, token string) {
	s.UserID = userID
	s.Email = email
	s.DisplayName = displayName
	s.AccessToken = token
	s.PendingEmail = ""
	s.PendingFlow = ""
	s.OTPSentAt = time.Time{}
	s.dirty = true
}

// SignOut drops identity but keeps flashes so a goodbye message survives.
func (s *Session) SignOut() {
	flashes := s.Flashes
	*s = Session{ID: s.ID, Values: map[string]string{}, Flashes: flashes, ExpiresAt: s.ExpiresAt, dirty: true}
}

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[key] = value
	s.dirty = true
}

func (s *Session) Delete(keys ...string) {
	for _, k := range keys {
		if _, ok := s.Values[k]; ok {
			delete(s.Values, k)
			s.dirty = true
		}
	}
}

func (s *Session) AddFlash(kind, message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

// TakeFlashes returns and clears pending flashes.
func (s *Session) TakeFlashes() []Flash {
	out := s.Flashes
	if len(out) > 0 {
		s.Flashes = nil
		s.dirty = true
	}
	return out
}

// MarkDirty forces the session to be persisted at the end of the request.
func (s *Session) MarkDirty() { s.dirty = true }

func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) clean() { s.dirty = false }
