// Package creature models lab creatures: a base record with a name, a birth
// date and health, optionally composed with a variant trait (Dragon, Elf, Orc)
// that owns one consumable stat and one resource-consuming attack.
//
// Creatures are plain values mutated in place and are not safe for concurrent
// use.
package creature

import (
	"fmt"
	"strings"
	"time"

	apperrors "creaturelab/internal/platform/errors"
	platformid "creaturelab/internal/platform/id"
	"creaturelab/internal/stat"
)

// Health bounds shared by every creature.
const (
	MinHealth = 0
	MaxHealth = 100
)

var healthBounds = stat.Bounds{Floor: MinHealth, Ceiling: MaxHealth}

// DefaultReferenceDate is the "today" used for birth date validation and age
// when no WithReferenceDate option is given.
var DefaultReferenceDate = Date{Year: 2025, Month: time.January, Day: 23}

// Creature is the shared base record of every lab creature.
type Creature struct {
	id     string
	name   string
	born   Date
	today  Date
	health stat.Value
	trait  Trait
}

// Option configures creature construction.
type Option func(*options)

type options struct {
	id    string
	today Date
}

// WithID sets the creature's identifier instead of generating one.
func WithID(id string) Option {
	return func(o *options) {
		o.id = strings.TrimSpace(id)
	}
}

// WithReferenceDate sets the date treated as today. A zero date keeps the
// default.
func WithReferenceDate(d Date) Option {
	return func(o *options) {
		if !d.IsZero() {
			o.today = d
		}
	}
}

// New constructs a plain creature.
func New(name string, born Date, health int, opts ...Option) (*Creature, error) {
	return newBase(name, born, health, opts)
}

func newBase(name string, born Date, health int, opts []Option) (*Creature, error) {
	o := options{today: DefaultReferenceDate}
	for _, opt := range opts {
		opt(&o)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeCreatureEmptyName, "name cannot be null or empty")
	}
	if born.IsZero() {
		return nil, apperrors.New(apperrors.CodeCreatureMissingBirthDate, "date of birth cannot be null")
	}
	if born.After(o.today) {
		return nil, apperrors.WithMetadata(apperrors.CodeCreatureBirthDateInFuture,
			"date of birth cannot be in the future",
			map[string]string{"born": born.String(), "today": o.today.String()})
	}
	h, err := stat.New("health", health, healthBounds)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCreatureInvalidHealth,
			fmt.Sprintf("health must be between %d and %d", MinHealth, MaxHealth), err)
	}

	if o.id == "" {
		o.id, err = platformid.NewID()
		if err != nil {
			return nil, err
		}
	}

	return &Creature{
		id:     o.id,
		name:   name,
		born:   born,
		today:  o.today,
		health: h,
	}, nil
}

// ID returns the creature's identifier.
func (c *Creature) ID() string { return c.id }

// Name returns the creature's name.
func (c *Creature) Name() string { return c.name }

// Born returns the date of birth.
func (c *Creature) Born() Date { return c.born }

// ReferenceDate returns the date the creature treats as today.
func (c *Creature) ReferenceDate() Date { return c.today }

// Health returns current health.
func (c *Creature) Health() int { return c.health.Current() }

// Kind returns the creature's variant tag.
func (c *Creature) Kind() Kind {
	if c.trait == nil {
		return KindCreature
	}
	return c.trait.Kind()
}

// Resource returns the variant's consumable stat, if the creature has one.
func (c *Creature) Resource() (stat.Value, bool) {
	if c.trait == nil {
		return stat.Value{}, false
	}
	return c.trait.Resource(), true
}

// IsAlive reports whether health is above zero.
func (c *Creature) IsAlive() bool {
	return c.health.Current() > MinHealth
}

// TakeDamage reduces health by amount, stopping at zero.
func (c *Creature) TakeDamage(amount int) error {
	if amount < 0 {
		return apperrors.New(apperrors.CodeNegativeAmount, "damage cannot be negative")
	}
	return c.health.Decrease(amount)
}

// Heal raises health by amount, stopping at MaxHealth.
func (c *Creature) Heal(amount int) error {
	if amount < 0 {
		return apperrors.New(apperrors.CodeNegativeAmount, "healing amount cannot be negative")
	}
	return c.health.Increase(amount)
}

// AgeInYears is the reference year minus the birth year.
func (c *Creature) AgeInYears() int {
	return c.today.Year - c.born.Year
}

// Describe returns the one-line report of the creature followed by its
// variant's suffix.
func (c *Creature) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, born on %s (%d) has %d health", c.name, c.born, c.AgeInYears(), c.health.Current())
	if c.trait != nil {
		b.WriteString(c.trait.DescribeSuffix())
	}
	return b.String()
}

// String implements fmt.Stringer.
func (c *Creature) String() string {
	return c.Describe()
}

// Attack performs the variant's resource-consuming attack on target and
// returns the damage dealt.
func (c *Creature) Attack(target *Creature) (int, error) {
	if c.trait == nil {
		return 0, apperrors.New(apperrors.CodeActionUnsupported,
			fmt.Sprintf("%s has no attack", c.name))
	}
	return c.trait.Attack(target)
}

// Restore refills the variant's resource by amount.
func (c *Creature) Restore(amount int) error {
	r, ok := c.trait.(restorer)
	if !ok {
		return apperrors.New(apperrors.CodeActionUnsupported,
			fmt.Sprintf("%s (%s) has no resource to restore", c.name, c.Kind()))
	}
	return r.Restore(amount)
}

// AsDragon returns the dragon trait if the creature is a dragon.
func (c *Creature) AsDragon() (*Dragon, bool) {
	d, ok := c.trait.(*Dragon)
	return d, ok
}

// AsElf returns the elf trait if the creature is an elf.
func (c *Creature) AsElf() (*Elf, bool) {
	e, ok := c.trait.(*Elf)
	return e, ok
}

// AsOrc returns the orc trait if the creature is an orc.
func (c *Creature) AsOrc() (*Orc, bool) {
	o, ok := c.trait.(*Orc)
	return o, ok
}
