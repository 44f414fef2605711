// Package gateway translates typed mutation intents into remote datastore
// requests. Every successful write triggers a full store reload before the
// caller is told it finished, so the UI always reflects server truth; there
// is no optimistic local patching and therefore no local/remote divergence.
package gateway

import (
	"context"
	"fmt"

	"github.com/tmeta22/MetaHouse/internal/core"
	"github.com/tmeta22/MetaHouse/internal/log"
	"github.com/tmeta22/MetaHouse/internal/store"
)

// Remote is the write side of the datastore client, plus bootstrap.
type Remote interface {
	Bootstrap(ctx context.Context) error

	CreateTask(ctx context.Context, t core.Task) (core.Task, error)
	UpdateTask(ctx context.Context, id string, p core.TaskPatch) (core.Task, error)
	DeleteTask(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, e core.Event) (core.Event, error)
	UpdateEvent(ctx context.Context, id string, p core.EventPatch) (core.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, p core.SubscriptionPatch) (core.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error

	CreateFamilyMember(ctx context.Context, m core.FamilyMember) (core.FamilyMember, error)
	UpdateFamilyMember(ctx context.Context, id string, p core.FamilyMemberPatch) (core.FamilyMember, error)
	DeleteFamilyMember(ctx context.Context, id string) error

	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	CreateTrip(ctx context.Context, t core.Trip) (core.Trip, error)
	CreateParty(ctx context.Context, p core.Party) (core.Party, error)
}

// Flags is the slice of local storage holding the one-time bootstrap flag.
type Flags interface {
	Bootstrapped(ctx context.Context) (bool, error)
	SetBootstrapped(ctx context.Context) error
}

// Recorder consumes domain events emitted at the mutation points. The
// notification engine implements it; a nil recorder disables the hook.
type Recorder interface {
	RecordMutation(ctx context.Context, entity, op, title string)
}

type Gateway struct {
	remote   Remote
	store    *store.Store
	flags    Flags
	recorder Recorder
	logger   *log.Logger
}

func New(remote Remote, st *store.Store, flags Flags, recorder Recorder, logger *log.Logger) *Gateway {
	return &Gateway{
		remote:   remote,
		store:    st,
		flags:    flags,
		recorder: recorder,
		logger:   logger.WithComponent(log.ComponentGateway),
	}
}

// Init performs the initial load, invoking the remote bootstrap at most once
// per local store: only when the task list comes back empty AND no bootstrap
// has ever been recorded. A genuinely empty list in steady state therefore
// no longer re-triggers seeding.
func (g *Gateway) Init(ctx context.Context) error {
	g.store.Load(ctx)

	if len(g.store.Tasks()) > 0 {
		return nil
	}

	done, err := g.flags.Bootstrapped(ctx)
	if err != nil {
		g.logger.WarnContext(ctx, "Cannot read bootstrap flag, skipping bootstrap",
			log.FieldError, err)
		return nil
	}
	if done {
		return nil
	}

	g.logger.InfoContext(ctx, "Fresh install detected, bootstrapping datastore",
		log.FieldOperation, log.OpBootstrap)
	if err := g.remote.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap datastore: %w", err)
	}
	if err := g.flags.SetBootstrapped(ctx); err != nil {
		g.logger.WarnContext(ctx, "Cannot persist bootstrap flag",
			log.FieldError, err)
	}

	g.store.Load(ctx)
	return nil
}

// Refresh reloads every collection from the datastore.
func (g *Gateway) Refresh(ctx context.Context) {
	g.store.Load(ctx)
}

// mutate runs one remote write, reloads the store on success, and feeds the
// mutation hook. The returned error lets callers surface failures; the
// gateway itself only guarantees logging and a truthful store.
func (g *Gateway) mutate(ctx context.Context, entity, op, title string, fn func() error) error {
	if err := fn(); err != nil {
		g.logger.ErrorContext(ctx, "Remote write failed",
			log.FieldEntity, entity,
			log.FieldOperation, op,
			log.FieldError, err)
		return fmt.Errorf("%s %s: %w", op, entity, err)
	}

	g.store.Load(ctx)

	if g.recorder != nil {
		g.recorder.RecordMutation(ctx, entity, op, title)
	}
	return nil
}

func (g *Gateway) AddTask(ctx context.Context, t core.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate task: %w", err)
	}
	return g.mutate(ctx, "task", log.OpCreate, t.Title, func() error {
		_, err := g.remote.CreateTask(ctx, t)
		return err
	})
}

func (g *Gateway) UpdateTask(ctx context.Context, id string, p core.TaskPatch) error {
	return g.mutate(ctx, "task", log.OpUpdate, "", func() error {
		_, err := g.remote.UpdateTask(ctx, id, p)
		return err
	})
}

func (g *Gateway) DeleteTask(ctx context.Context, id string) error {
	return g.mutate(ctx, "task", log.OpDelete, "", func() error {
		return g.remote.DeleteTask(ctx, id)
	})
}

func (g *Gateway) AddEvent(ctx context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validate event: %w", err)
	}
	return g.mutate(ctx, "event", log.OpCreate, e.Title, func() error {
		_, err := g.remote.CreateEvent(ctx, e)
		return err
	})
}

func (g *Gateway) UpdateEvent(ctx context.Context, id string, p core.EventPatch) error {
	return g.mutate(ctx, "event", log.OpUpdate, "", func() error {
		_, err := g.remote.UpdateEvent(ctx, id, p)
		return err
	})
}

func (g *Gateway) DeleteEvent(ctx context.Context, id string) error {
	return g.mutate(ctx, "event", log.OpDelete, "", func() error {
		return g.remote.DeleteEvent(ctx, id)
	})
}

func (g *Gateway) AddSubscription(ctx context.Context, s core.Subscription) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate subscription: %w", err)
	}
	return g.mutate(ctx, "subscription", log.OpCreate, s.Name, func() error {
		_, err := g.remote.CreateSubscription(ctx, s)
		return err
	})
}

func (g *Gateway) UpdateSubscription(ctx context.Context, id string, p core.SubscriptionPatch) error {
	return g.mutate(ctx, "subscription", log.OpUpdate, "", func() error {
		_, err := g.remote.UpdateSubscription(ctx, id, p)
		return err
	})
}

func (g *Gateway) DeleteSubscription(ctx context.Context, id string) error {
	return g.mutate(ctx, "subscription", log.OpDelete, "", func() error {
		return g.remote.DeleteSubscription(ctx, id)
	})
}

func (g *Gateway) AddFamilyMember(ctx context.Context, m core.FamilyMember) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validate family member: %w", err)
	}
	return g.mutate(ctx, "family_member", log.OpCreate, m.Name, func() error {
		_, err := g.remote.CreateFamilyMember(ctx, m)
		return err
	})
}

func (g *Gateway) UpdateFamilyMember(ctx context.Context, id string, p core.FamilyMemberPatch) error {
	return g.mutate(ctx, "family_member", log.OpUpdate, "", func() error {
		_, err := g.remote.UpdateFamilyMember(ctx, id, p)
		return err
	})
}

func (g *Gateway) DeleteFamilyMember(ctx context.Context, id string) error {
	return g.mutate(ctx, "family_member", log.OpDelete, "", func() error {
		return g.remote.DeleteFamilyMember(ctx, id)
	})
}

func (g *Gateway) AddTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	return g.mutate(ctx, "transaction", log.OpCreate, t.Description, func() error {
		_, err := g.remote.CreateTransaction(ctx, t)
		return err
	})
}

func (g *Gateway) UpdateTransaction(ctx context.Context, id string, p core.TransactionPatch) error {
	return g.mutate(ctx, "transaction", log.OpUpdate, "", func() error {
		_, err := g.remote.UpdateTransaction(ctx, id, p)
		return err
	})
}

func (g *Gateway) DeleteTransaction(ctx context.Context, id string) error {
	return g.mutate(ctx, "transaction", log.OpDelete, "", func() error {
		return g.remote.DeleteTransaction(ctx, id)
	})
}

// AddTrip persists a planning record. Trips are not mirrored into the entity
// store; the calendar bridge projects them into events separately.
func (g *Gateway) AddTrip(ctx context.Context, t core.Trip) (core.Trip, error) {
	if err := t.Validate(); err != nil {
		return core.Trip{}, fmt.Errorf("validate trip: %w", err)
	}
	created, err := g.remote.CreateTrip(ctx, t)
	if err != nil {
		g.logger.ErrorContext(ctx, "Remote write failed",
			log.FieldEntity, "trip",
			log.FieldOperation, log.OpCreate,
			log.FieldError, err)
		return core.Trip{}, fmt.Errorf("create trip: %w", err)
	}
	if g.recorder != nil {
		g.recorder.RecordMutation(ctx, "trip", log.OpCreate, created.Title)
	}
	return created, nil
}

// AddParty persists a planning record, like AddTrip.
func (g *Gateway) AddParty(ctx context.Context, p core.Party) (core.Party, error) {
	if err := p.Validate(); err != nil {
		return core.Party{}, fmt.Errorf("validate party: %w", err)
	}
	created, err := g.remote.CreateParty(ctx, p)
	if err != nil {
		g.logger.ErrorContext(ctx, "Remote write failed",
			log.FieldEntity, "party",
			log.FieldOperation, log.OpCreate,
			log.FieldError, err)
		return core.Party{}, fmt.Errorf("create party: %w", err)
	}
	if g.recorder != nil {
		g.recorder.RecordMutation(ctx, "party", log.OpCreate, created.Title)
	}
	return created, nil
}
