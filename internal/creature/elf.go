package creature

import (
	"fmt"
	"strconv"

	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/stat"
)

const (
	MinMana       = 0
	MaxMana       = 50
	ManaSpellCost = 5
	SpellPower    = 10
)

var manaBounds = stat.Bounds{Floor: MinMana, Ceiling: MaxMana}

// Elf casts spells, spending mana.
type Elf struct {
	mana stat.Value
}

// NewElf constructs an elf creature.
func NewElf(name string, born Date, health, mana int, opts ...Option) (*Creature, error) {
	c, err := newBase(name, born, health, opts)
	if err != nil {
		return nil, err
	}
	m, err := stat.New("mana", mana, manaBounds)
	if err != nil {
		return nil, err
	}
	c.trait = &Elf{mana: m}
	return c, nil
}

func (e *Elf) Kind() Kind { return KindElf }

func (e *Elf) Resource() stat.Value { return e.mana }

// Mana returns the mana left.
func (e *Elf) Mana() int { return e.mana.Current() }

func (e *Elf) DescribeSuffix() string {
	return fmt.Sprintf(" and has %d mana left.", e.mana.Current())
}

// CastSpell spends ManaSpellCost and deals SpellPower to target.
func (e *Elf) CastSpell(target *Creature) error {
	if target == nil {
		return missingTarget()
	}
	if !e.mana.Covers(ManaSpellCost) {
		return apperrors.WithMetadata(apperrors.CodeElfLowMana,
			fmt.Sprintf("mana is too low to cast spell [%d]", e.mana.Current()),
			map[string]string{"current": strconv.Itoa(e.mana.Current())})
	}
	if err := e.mana.Spend(ManaSpellCost); err != nil {
		return err
	}
	return target.TakeDamage(SpellPower)
}

func (e *Elf) Attack(target *Creature) (int, error) {
	if err := e.CastSpell(target); err != nil {
		return 0, err
	}
	return SpellPower, nil
}

// RestoreMana adds amount, stopping at MaxMana. amount itself must lie
// within [MinMana, MaxMana].
func (e *Elf) RestoreMana(amount int) error {
	if amount < MinMana || amount > MaxMana {
		return apperrors.New(apperrors.CodeStatOutOfRange,
			fmt.Sprintf("invalid mana amount: %d", amount))
	}
	return e.mana.Increase(amount)
}

func (e *Elf) Restore(amount int) error { return e.RestoreMana(amount) }
