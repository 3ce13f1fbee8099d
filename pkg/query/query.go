// Package query keeps live result sets of the store up to date.
//
// A subscription runs its query once when it is created and again every time
// the store changes data in the scope of the query. The new result is handed to
// the subscriber's callback before the call that changed the store returns.
package query

import (
	"sync"

	"github.com/budget-app/backend/pkg/events"
	"github.com/budget-app/backend/pkg/models"
	"github.com/budget-app/backend/pkg/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Handle identifies a subscription.
type Handle uint64

type scope struct {
	categoryID uuid.UUID // uuid.Nil for all categories
	all        bool
}

type subscription struct {
	scope        scope
	categories   *feed[models.BudgetCategory]
	transactions *feed[models.Transaction]
}

// Live manages subscriptions to result sets of a Store.
type Live struct {
	store         *store.Store
	mu            sync.Mutex
	subscriptions map[Handle]subscription
	next          Handle
	unsubscribe   []func()
}

// New returns a Live that follows the changes the store publishes on the bus.
func New(s *store.Store, bus *events.Bus) *Live {
	l := &Live{
		store:         s,
		subscriptions: make(map[Handle]subscription),
	}

	l.unsubscribe = append(l.unsubscribe,
		events.SubscribeTyped(bus, events.CategoryCreated, func(events.EventT[events.Category]) error {
			l.refreshCategories()
			return nil
		}),
		events.SubscribeTyped(bus, events.TransactionCreated, func(e events.EventT[events.Transaction]) error {
			l.refreshTransactions(e.Data.CategoryID)
			return nil
		}),
	)

	return l
}

// SubscribeCategories returns all categories sorted by name and calls cb with the
// new list every time a category is created.
func (l *Live) SubscribeCategories(cb func([]models.BudgetCategory)) ([]models.BudgetCategory, Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	categories, rev, err := l.store.SnapshotCategories()
	if err != nil {
		return nil, 0, err
	}

	h := l.register(subscription{
		scope:      scope{all: true},
		categories: newFeed(cb, rev),
	})

	return categories, h, nil
}

// SubscribeTransactions returns the transactions of the category, most recent first,
// and calls cb with the new list every time a transaction is created for the category.
func (l *Live) SubscribeTransactions(categoryID uuid.UUID, cb func([]models.Transaction)) ([]models.Transaction, Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	transactions, rev, err := l.store.SnapshotTransactions(categoryID)
	if err != nil {
		return nil, 0, err
	}

	h := l.register(subscription{
		scope:        scope{categoryID: categoryID},
		transactions: newFeed(cb, rev),
	})

	return transactions, h, nil
}

// Unsubscribe stops notifications for the handle. Unknown handles are ignored.
func (l *Live) Unsubscribe(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.subscriptions, h)
}

// Count returns the number of active subscriptions.
func (l *Live) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.subscriptions)
}

// Close stops following the store and removes all subscriptions.
func (l *Live) Close() {
	for _, unsubscribe := range l.unsubscribe {
		unsubscribe()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.subscriptions)
}

// register must be called with l.mu held.
func (l *Live) register(s subscription) Handle {
	l.next++
	l.subscriptions[l.next] = s
	return l.next
}

// matching returns the subscriptions for the scope, ordered by handle.
func (l *Live) matching(sc scope) []subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	handles := make([]Handle, 0)
	for h, s := range l.subscriptions {
		if s.scope == sc {
			handles = append(handles, h)
		}
	}
	slices.Sort(handles)

	matches := make([]subscription, 0, len(handles))
	for _, h := range handles {
		matches = append(matches, l.subscriptions[h])
	}

	return matches
}

func (l *Live) refreshCategories() {
	subscriptions := l.matching(scope{all: true})
	if len(subscriptions) == 0 {
		return
	}

	categories, rev, err := l.store.SnapshotCategories()
	if err != nil {
		log.Error().Err(err).Msg("refreshing live categories failed")
		return
	}

	for _, s := range subscriptions {
		s.categories.offer(rev, slices.Clone(categories))
	}
}

func (l *Live) refreshTransactions(categoryID uuid.UUID) {
	subscriptions := l.matching(scope{categoryID: categoryID})
	if len(subscriptions) == 0 {
		return
	}

	transactions, rev, err := l.store.SnapshotTransactions(categoryID)
	if err != nil {
		log.Error().Err(err).Str("category", categoryID.String()).Msg("refreshing live transactions failed")
		return
	}

	for _, s := range subscriptions {
		s.transactions.offer(rev, slices.Clone(transactions))
	}
}
