// Package storage defines persistence contracts for creature state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested creature record is missing.
var ErrNotFound = errors.New("record not found")

// CreatureRecord stores the persisted state of one creature.
type CreatureRecord struct {
	ID        string
	Kind      string
	Name      string
	BornOn    string // YYYY-MM-DD
	Health    int
	Resource  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatureStore persists creature records.
type CreatureStore interface {
	// PutCreatures inserts each record or replaces the stored state of an
	// existing ID, keeping its creation time. The write is atomic: on error
	// no record is changed.
	PutCreatures(ctx context.Context, records ...CreatureRecord) error
	GetCreature(ctx context.Context, id string) (CreatureRecord, error)
	// ListCreatures returns every record ordered by name, then ID.
	ListCreatures(ctx context.Context) ([]CreatureRecord, error)
	DeleteCreature(ctx context.Context, id string) error
}
