package creature

import (
	"fmt"

	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/stat"
)

// Snapshot is the flat, persistable state of a creature.
type Snapshot struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Name     string `json:"name"`
	Born     Date   `json:"bornOn"`
	Health   int    `json:"health"`
	Resource int    `json:"resource"`
}

// Snapshot captures the creature's current state.
func (c *Creature) Snapshot() Snapshot {
	s := Snapshot{
		ID:     c.id,
		Kind:   c.Kind(),
		Name:   c.name,
		Born:   c.born,
		Health: c.health.Current(),
	}
	if c.trait != nil {
		s.Resource = c.trait.Resource().Current()
	}
	return s
}

// FromSnapshot rebuilds a creature. Unlike the constructors it accepts a
// resource drained below its construction floor, which play can produce.
func FromSnapshot(s Snapshot, opts ...Option) (*Creature, error) {
	opts = append([]Option{WithID(s.ID)}, opts...)
	c, err := newBase(s.Name, s.Born, s.Health, opts)
	if err != nil {
		return nil, err
	}

	switch s.Kind {
	case KindCreature, "":
		return c, nil
	case KindDragon:
		fp, err := stat.Restore("fire power", s.Resource, firePowerBounds)
		if err != nil {
			return nil, err
		}
		c.trait = &Dragon{firePower: fp}
	case KindElf:
		m, err := stat.Restore("mana", s.Resource, manaBounds)
		if err != nil {
			return nil, err
		}
		c.trait = &Elf{mana: m}
	case KindOrc:
		r, err := stat.Restore("rage", s.Resource, rageBounds)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeOrcInvalidRage, err.Error(), err)
		}
		c.trait = &Orc{rage: r}
	default:
		return nil, apperrors.New(apperrors.CodeCreatureInvalidKind,
			fmt.Sprintf("unknown creature kind %q", s.Kind))
	}
	return c, nil
}

// Revert puts c back into a state previously captured by Snapshot.
func (c *Creature) Revert(s Snapshot) error {
	if s.ID != c.id {
		return apperrors.New(apperrors.CodeActionInvalid,
			fmt.Sprintf("snapshot of %s cannot revert %s", s.ID, c.id))
	}
	restored, err := FromSnapshot(s, WithReferenceDate(c.today))
	if err != nil {
		return err
	}
	*c = *restored
	return nil
}
