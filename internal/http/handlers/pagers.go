package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/pager"

	"github.com/gin-gonic/gin"
)

const pagerIdle = 15 * time.Minute

// Session keys holding the load-more position of each listing.
const (
	bookingsPagerKey      = "pager:bookings"
	notificationsPagerKey = "pager:notifications"
)

// pagerRegistry keeps one live pager per session and listing so that an
// overlapping "load more" is refused instead of fetching the same page twice.
type pagerRegistry[T any] struct {
	mu      sync.Mutex
	entries map[string]*pagerEntry[T]
	now     func() time.Time
}

type pagerEntry[T any] struct {
	p    *pager.Pager[T]
	used time.Time
}

func newPagerRegistry[T any]() *pagerRegistry[T] {
	return &pagerRegistry[T]{entries: map[string]*pagerEntry[T]{}, now: time.Now}
}

// get returns the live pager for key, or builds one with build.
func (r *pagerRegistry[T]) get(key string, build func() *pager.Pager[T]) *pager.Pager[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, e := range r.entries {
		if now.Sub(e.used) > pagerIdle {
			delete(r.entries, k)
		}
	}
	e, ok := r.entries[key]
	if !ok {
		e = &pagerEntry[T]{p: build()}
		r.entries[key] = e
	}
	e.used = now
	return e.p
}

// restart replaces the pager for key, used when the listing's first page is rendered again.
func (r *pagerRegistry[T]) restart(key string, p *pager.Pager[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = &pagerEntry[T]{p: p, used: r.now()}
}

func (r *pagerRegistry[T]) forget(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

func pagerKey(c *gin.Context, listing string) string {
	return sess(c).ID + "|" + listing
}

// firstPage renders the start of a listing and remembers where "load more" continues.
func firstPage[T any](c *gin.Context, reg *pagerRegistry[T], listing string, p *pager.Pager[T]) ([]T, error) {
	items, err := p.LoadMore(c.Request.Context())
	if errors.Is(err, pager.ErrExhausted) {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	s := sess(c)
	reg.restart(pagerKey(c, listing), p)
	s.Set(listing, p.State().Encode())
	return items, nil
}

// loadMore serves the JSON side of "load more": {items, done}.
func loadMore[T any](c *gin.Context, reg *pagerRegistry[T], listing string, build func(pager.State) *pager.Pager[T], view func(T) gin.H) {
	s := sess(c)
	raw, _ := s.Get(listing)
	p := reg.get(pagerKey(c, listing), func() *pager.Pager[T] {
		return build(pager.DecodeState(raw))
	})

	items, err := p.LoadMore(c.Request.Context())
	switch {
	case errors.Is(err, pager.ErrBusy):
		respondError(c, http.StatusConflict, "busy", err.Error(), nil)
		return
	case errors.Is(err, pager.ErrExhausted):
		c.JSON(http.StatusOK, gin.H{"items": []gin.H{}, "done": true})
		return
	case errors.Is(err, context.Canceled):
		return
	case err != nil:
		if domain.IsUnauthorized(err) {
			reg.forget(pagerKey(c, listing))
		}
		RespondDomainError(c, err)
		return
	}

	s.Set(listing, p.State().Encode())
	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		out = append(out, view(it))
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "done": p.Done()})
}
