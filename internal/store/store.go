// Package store holds the latest known state of the five entity collections
// mirrored from the remote datastore. It is the single owner of entity data
// within a session: every screen reads snapshots from here, and every write
// path triggers a full reload so readers always observe server truth.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tmeta22/MetaHouse/internal/core"
	"github.com/tmeta22/MetaHouse/internal/log"
)

// State tracks the store lifecycle. Ready is re-entered after every
// mutation-triggered reload; there is no error state because fetch failures
// degrade to empty collections instead of failing the store.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Lister is the read side of the remote datastore client.
type Lister interface {
	ListTasks(ctx context.Context) ([]core.Task, error)
	ListEvents(ctx context.Context) ([]core.Event, error)
	ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
	ListFamilyMembers(ctx context.Context) ([]core.FamilyMember, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// Snapshot is a point-in-time copy of all five collections.
type Snapshot struct {
	Tasks         []core.Task
	Events        []core.Event
	Subscriptions []core.Subscription
	FamilyMembers []core.FamilyMember
	Transactions  []core.Transaction
}

type Store struct {
	lister Lister
	logger *log.Logger

	mu            sync.RWMutex
	state         State
	tasks         []core.Task
	events        []core.Event
	subscriptions []core.Subscription
	familyMembers []core.FamilyMember
	transactions  []core.Transaction
}

func New(lister Lister, logger *log.Logger) *Store {
	return &Store{
		lister: lister,
		logger: logger.WithComponent(log.ComponentStore),
	}
}

// Load fetches all five collections in parallel and replaces the store's
// contents wholesale. A failed fetch resets that one collection to empty and
// is logged; Load itself never fails and never blocks other collections.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	if s.state == Uninitialized {
		s.state = Loading
	}
	s.mu.Unlock()

	var (
		tasks         []core.Task
		events        []core.Event
		subscriptions []core.Subscription
		familyMembers []core.FamilyMember
		transactions  []core.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tasks = fetch(gctx, s, "tasks", s.lister.ListTasks)
		return nil
	})
	g.Go(func() error {
		events = fetch(gctx, s, "events", s.lister.ListEvents)
		return nil
	})
	g.Go(func() error {
		subscriptions = fetch(gctx, s, "subscriptions", s.lister.ListSubscriptions)
		return nil
	})
	g.Go(func() error {
		familyMembers = fetch(gctx, s, "family_members", s.lister.ListFamilyMembers)
		return nil
	})
	g.Go(func() error {
		transactions = fetch(gctx, s, "transactions", s.lister.ListTransactions)
		return nil
	})
	// Goroutines never return errors; failures degrade per collection.
	_ = g.Wait()

	s.mu.Lock()
	s.tasks = tasks
	s.events = events
	s.subscriptions = subscriptions
	s.familyMembers = familyMembers
	s.transactions = transactions
	s.state = Ready
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Store reloaded",
		"tasks", len(tasks),
		"events", len(events),
		"subscriptions", len(subscriptions),
		"family_members", len(familyMembers),
		"transactions", len(transactions))
}

// fetch runs one collection listing, converting failure into an empty slice.
func fetch[T any](ctx context.Context, s *Store, name string, f func(context.Context) ([]T, error)) []T {
	items, err := f(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Collection fetch failed, falling back to empty",
			log.FieldCollection, name,
			log.FieldError, err)
		return nil
	}
	return items
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether the initial bootstrap load is still in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Loading
}

func (s *Store) Tasks() []core.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Task(nil), s.tasks...)
}

func (s *Store) Events() []core.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Event(nil), s.events...)
}

func (s *Store) Subscriptions() []core.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Subscription(nil), s.subscriptions...)
}

func (s *Store) FamilyMembers() []core.FamilyMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.FamilyMember(nil), s.familyMembers...)
}

func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.transactions...)
}

// Snapshot returns a consistent copy of all five collections at once.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Tasks:         append([]core.Task(nil), s.tasks...),
		Events:        append([]core.Event(nil), s.events...),
		Subscriptions: append([]core.Subscription(nil), s.subscriptions...),
		FamilyMembers: append([]core.FamilyMember(nil), s.familyMembers...),
		Transactions:  append([]core.Transaction(nil), s.transactions...),
	}
}
