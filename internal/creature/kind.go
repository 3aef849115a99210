package creature

import (
	"fmt"
	"strings"

	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/stat"
)

// Kind tags the variant a creature is composed with.
type Kind string

const (
	KindCreature Kind = "creature"
	KindDragon   Kind = "dragon"
	KindElf      Kind = "elf"
	KindOrc      Kind = "orc"
)

// ParseKind maps a case-insensitive name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCreature, KindDragon, KindElf, KindOrc:
		return k, nil
	default:
		return "", apperrors.New(apperrors.CodeCreatureInvalidKind,
			fmt.Sprintf("unknown creature kind %q", s))
	}
}

// Trait is the variant behaviour composed into a Creature.
type Trait interface {
	Kind() Kind
	// Resource returns a copy of the variant's consumable stat.
	Resource() stat.Value
	// DescribeSuffix is appended to the base description.
	DescribeSuffix() string
	// Attack spends the resource and damages target, returning the damage
	// dealt. A failed attack changes neither creature.
	Attack(target *Creature) (int, error)
}

type restorer interface {
	Restore(amount int) error
}

// NewOfKind constructs a creature of the given kind. resource is the
// variant's initial stat and is ignored for KindCreature.
func NewOfKind(kind Kind, name string, born Date, health, resource int, opts ...Option) (*Creature, error) {
	switch kind {
	case KindCreature:
		return New(name, born, health, opts...)
	case KindDragon:
		return NewDragon(name, born, health, resource, opts...)
	case KindElf:
		return NewElf(name, born, health, resource, opts...)
	case KindOrc:
		return NewOrc(name, born, health, resource, opts...)
	default:
		return nil, apperrors.New(apperrors.CodeCreatureInvalidKind,
			fmt.Sprintf("unknown creature kind %q", kind))
	}
}

func missingTarget() error {
	return apperrors.New(apperrors.CodeMissingTarget, "creature hit cannot be null")
}
