// Package roster keeps the creatures currently in play.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"creaturelab/internal/creature"
	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/storage"
)

// Manager defines the interface for managing the creatures in play.
type Manager interface {
	Add(ctx context.Context, c *creature.Creature) error
	Get(ctx context.Context, id string) (*creature.Creature, error)
	FindByName(ctx context.Context, name string) (*creature.Creature, error)
	List(ctx context.Context) []*creature.Creature
	// Save persists creatures already in the roster after they were
	// mutated. The write is atomic: on error nothing was persisted.
	Save(ctx context.Context, cs ...*creature.Creature) error
	Remove(ctx context.Context, id string) error
}

// InMemoryRoster holds creatures in memory and, when given a store, writes
// every change through to it.
type InMemoryRoster struct {
	creatures map[string]*entry
	store     storage.CreatureStore
	opts      []creature.Option
	mu        sync.RWMutex // Protects access to the creatures map
}

type entry struct {
	creature  *creature.Creature
	createdAt time.Time
}

// NewInMemoryRoster creates an empty roster. store may be nil; opts are used
// when rebuilding creatures from stored records.
func NewInMemoryRoster(store storage.CreatureStore, opts ...creature.Option) *InMemoryRoster {
	return &InMemoryRoster{
		creatures: make(map[string]*entry),
		store:     store,
		opts:      opts,
	}
}

// Load replaces the roster's contents with the store's records.
func (r *InMemoryRoster) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	records, err := r.store.ListCreatures(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	loaded := make(map[string]*entry, len(records))
	for _, rec := range records {
		c, err := fromRecord(rec, r.opts)
		if err != nil {
			return fmt.Errorf("load creature %s: %w", rec.ID, err)
		}
		loaded[c.ID()] = &entry{creature: c, createdAt: rec.CreatedAt}
	}

	r.mu.Lock()
	r.creatures = loaded
	r.mu.Unlock()
	log.Printf("roster: loaded %d creature(s) from storage", len(loaded))
	return nil
}

// Add registers a new creature. An ID already in the roster or already in
// the store is rejected.
func (r *InMemoryRoster) Add(ctx context.Context, c *creature.Creature) error {
	if c == nil {
		return apperrors.New(apperrors.CodeActionInvalid, "cannot add nil creature")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.creatures[c.ID()]; exists {
		return duplicate(c.ID())
	}
	if r.store != nil {
		_, err := r.store.GetCreature(ctx, c.ID())
		switch {
		case err == nil:
			return duplicate(c.ID())
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("check creature %s: %w", c.ID(), err)
		}
	}

	e := &entry{creature: c, createdAt: time.Now().UTC()}
	if err := r.persist(ctx, e); err != nil {
		return err
	}
	r.creatures[c.ID()] = e
	log.Printf("roster: added %s (%s) as %s", c.Name(), c.Kind(), c.ID())
	return nil
}

// Get retrieves a creature by ID.
func (r *InMemoryRoster) Get(_ context.Context, id string) (*creature.Creature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.creatures[id]
	if !ok {
		return nil, notFound(id)
	}
	return e.creature, nil
}

// FindByName returns the first creature, in list order, whose name matches
// ignoring case.
func (r *InMemoryRoster) FindByName(ctx context.Context, name string) (*creature.Creature, error) {
	want := cases.Fold().String(name)
	for _, c := range r.List(ctx) {
		if cases.Fold().String(c.Name()) == want {
			return c, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("no creature named %q", name))
}

// List returns all creatures ordered by name, then ID.
func (r *InMemoryRoster) List(_ context.Context) []*creature.Creature {
	r.mu.RLock()
	out := make([]*creature.Creature, 0, len(r.creatures))
	for _, e := range r.creatures {
		out = append(out, e.creature)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Save writes the creatures' current state through to the store in one
// atomic write.
func (r *InMemoryRoster) Save(ctx context.Context, cs ...*creature.Creature) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*entry, 0, len(cs))
	for _, c := range cs {
		if c == nil {
			return apperrors.New(apperrors.CodeActionInvalid, "cannot save nil creature")
		}
		e, ok := r.creatures[c.ID()]
		if !ok || e.creature != c {
			return notFound(c.ID())
		}
		entries = append(entries, e)
	}
	return r.persist(ctx, entries...)
}

// Remove drops a creature from the roster and the store.
func (r *InMemoryRoster) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.creatures[id]; !ok {
		return notFound(id)
	}
	if r.store != nil {
		if err := r.store.DeleteCreature(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete creature %s: %w", id, err)
		}
	}
	delete(r.creatures, id)
	return nil
}

func (r *InMemoryRoster) persist(ctx context.Context, entries ...*entry) error {
	if r.store == nil || len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	records := make([]storage.CreatureRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, toRecord(e, now))
	}
	if err := r.store.PutCreatures(ctx, records...); err != nil {
		return fmt.Errorf("save creature %s: %w", entries[0].creature.ID(), err)
	}
	return nil
}

func duplicate(id string) error {
	return apperrors.New(apperrors.CodeActionInvalid,
		fmt.Sprintf("creature %s is already in the roster", id))
}

func notFound(id string) error {
	return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("creature not found: %s", id))
}

func toRecord(e *entry, now time.Time) storage.CreatureRecord {
	s := e.creature.Snapshot()
	return storage.CreatureRecord{
		ID:        s.ID,
		Kind:      string(s.Kind),
		Name:      s.Name,
		BornOn:    s.Born.String(),
		Health:    s.Health,
		Resource:  s.Resource,
		CreatedAt: e.createdAt,
		UpdatedAt: now,
	}
}

func fromRecord(rec storage.CreatureRecord, opts []creature.Option) (*creature.Creature, error) {
	born, err := creature.ParseDate(rec.BornOn)
	if err != nil {
		return nil, err
	}
	return creature.FromSnapshot(creature.Snapshot{
		ID:       rec.ID,
		Kind:     creature.Kind(rec.Kind),
		Name:     rec.Name,
		Born:     born,
		Health:   rec.Health,
		Resource: rec.Resource,
	}, opts...)
}

var _ Manager = (*InMemoryRoster)(nil)
