// Package pager implements incremental loading of a cursor-paginated
// collection as an explicit state machine.
//
// The pager is driven by discrete load requests, typically fired when the
// consumer nears the end of the already-loaded items. At most one fetch is in
// flight at a time and requests arriving while a fetch runs or after the
// collection is exhausted are ignored.
package pager

import (
	"context"
	"fmt"
	"sync"
)

// State of the pager.
type State int

const (
	// StateIdle means the pager is ready to fetch the next page.
	StateIdle State = iota
	// StateFetching means a page fetch is in flight.
	StateFetching
	// StateExhausted means the last page has been loaded.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FetchFunc loads the page following cursor. A zero cursor loads the first
// page. It returns the page items, the cursor for the following page, and
// whether a following page exists.
type FetchFunc[T any] func(ctx context.Context, cursor int64) (items []T, next int64, hasMore bool, err error)

// Pager accumulates pages fetched with a FetchFunc. Safe for concurrent use.
type Pager[T any] struct {
	mu     sync.Mutex
	state  State
	cursor int64
	items  []T
	fetch  FetchFunc[T]
}

// New creates a pager in the idle state with no items loaded.
func New[T any](fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{
		mu:     sync.Mutex{},
		state:  StateIdle,
		cursor: 0,
		items:  nil,
		fetch:  fetch,
	}
}

// RequestMore asks the pager to load the next page. It reports whether a
// fetch was performed: requests are ignored while a fetch is in flight and
// once the collection is exhausted. A failed fetch returns the pager to idle
// so the request can be retried.
func (p *Pager[T]) RequestMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return false, nil
	}
	p.state = StateFetching
	cursor := p.cursor
	p.mu.Unlock()

	items, next, hasMore, err := p.fetch(ctx, cursor)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateIdle
		return false, fmt.Errorf("fetch page after cursor %d: %w", cursor, err)
	}

	p.items = append(p.items, items...)
	p.cursor = next
	if hasMore {
		p.state = StateIdle
	} else {
		p.state = StateExhausted
	}
	return true, nil
}

// State returns the current state.
func (p *Pager[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Items returns a copy of every item loaded so far, in fetch order.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]T, len(p.items))
	copy(items, p.items)
	return items
}

// Reset discards the loaded items and returns the pager to the idle state at
// the start of the collection. A reset during an in-flight fetch is refused
// so the fetch result cannot be appended to the wrong generation of items.
func (p *Pager[T]) Reset() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateFetching {
		return false
	}
	p.state = StateIdle
	p.cursor = 0
	p.items = nil
	return true
}
