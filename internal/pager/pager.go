// Package pager implements "load more" pagination over page-numbered API listings.
package pager

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"rentalweb/internal/domain/models"
)

var (
	// ErrBusy is returned when LoadMore is called while a fetch is still running.
	ErrBusy = errors.New("a page is already loading")
	// ErrExhausted is returned once the last page has been delivered.
	ErrExhausted = errors.New("no more pages")
)

type FetchFunc[T any] func(ctx context.Context, page int) (models.Page[T], error)

// State is the resumable position of a Pager.
type State struct {
	Next int  `json:"next"`
	Done bool `json:"done"`
}

func (s State) Encode() string {
	b, _ := json.Marshal(s)
	return string(b)
}

// DecodeState parses an encoded State; anything unreadable starts from the first page.
func DecodeState(raw string) State {
	var s State
	if raw == "" || json.Unmarshal([]byte(raw), &s) != nil || s.Next < 0 {
		return State{}
	}
	return s
}

type Pager[T any] struct {
	fetch   FetchFunc[T]
	next    atomic.Int64
	done    atomic.Bool
	loading atomic.Bool
}

func New[T any](fetch FetchFunc[T], from State) *Pager[T] {
	p := &Pager[T]{fetch: fetch}
	p.next.Store(int64(from.Next))
	p.done.Store(from.Done)
	return p
}

// LoadMore fetches the next page. A failed fetch leaves the position unchanged.
func (p *Pager[T]) LoadMore(ctx context.Context) ([]T, error) {
	if !p.loading.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.loading.Store(false)

	if p.done.Load() {
		return nil, ErrExhausted
	}

	page, err := p.fetch(ctx, int(p.next.Load()))
	if err != nil {
		return nil, err
	}
	p.next.Store(int64(page.Number + 1))
	if !page.HasNext() {
		p.done.Store(true)
	}
	return page.Items, nil
}

func (p *Pager[T]) Done() bool { return p.done.Load() }

func (p *Pager[T]) State() State {
	return State{Next: int(p.next.Load()), Done: p.done.Load()}
}

// Collect loads pages until the listing is exhausted or maxPages were fetched.
func (p *Pager[T]) Collect(ctx context.Context, maxPages int) ([]T, error) {
	var out []T
	for i := 0; i < maxPages; i++ {
		items, err := p.LoadMore(ctx)
		if errors.Is(err, ErrExhausted) {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, items...)
	}
	return out, nil
}
