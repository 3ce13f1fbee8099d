package query

import (
	"sync"

	"github.com/budget-app/backend/pkg/store"
	"github.com/rs/zerolog/log"
)

// feed delivers result sets to the callback of one subscription.
//
// Results are delivered one at a time and never older than the last delivered
// one. A result offered while the callback runs, e.g. because the callback
// itself created a record, is delivered by the goroutine that is already
// delivering as soon as the callback returns.
type feed[T any] struct {
	cb func([]T)

	mu         sync.Mutex
	delivered  store.Revision
	pending    []T
	pendingRev store.Revision
	hasPending bool
	delivering bool
}

func newFeed[T any](cb func([]T), rev store.Revision) *feed[T] {
	return &feed[T]{cb: cb, delivered: rev}
}

func (f *feed[T]) offer(rev store.Revision, items []T) {
	f.mu.Lock()
	if rev < f.delivered || (f.hasPending && rev < f.pendingRev) {
		f.mu.Unlock()
		return
	}

	f.pending, f.pendingRev, f.hasPending = items, rev, true
	if f.delivering {
		f.mu.Unlock()
		return
	}

	f.delivering = true
	for f.hasPending {
		items := f.pending
		f.delivered = f.pendingRev
		f.pending, f.hasPending = nil, false

		f.mu.Unlock()
		f.call(items)
		f.mu.Lock()
	}
	f.delivering = false
	f.mu.Unlock()
}

// call runs the callback. A panic is logged so that the other subscribers
// and later results are still delivered.
func (f *feed[T]) call(items []T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("live query subscriber panicked")
		}
	}()

	f.cb(items)
}
