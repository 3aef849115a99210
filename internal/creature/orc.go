package creature

import (
	"fmt"
	"strconv"

	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/stat"
)

const (
	MinRage = 5
	MaxRage = 30
	// BerserkMinRage is the rage needed to go berserk.
	BerserkMinRage = 5
	// BoostThreshold is the rage above which berserk damage doubles.
	BoostThreshold       = 20
	BerserkDamage        = 15
	BoostedBerserkDamage = 30
	RageGain             = 5
)

var rageBounds = stat.Bounds{Floor: MinRage, Ceiling: MaxRage}

// Orc goes berserk, growing angrier each time.
type Orc struct {
	rage stat.Value
}

// NewOrc constructs an orc creature. rage outside [MinRage, MaxRage] is a
// rage-state error.
func NewOrc(name string, born Date, health, rage int, opts ...Option) (*Creature, error) {
	c, err := newBase(name, born, health, opts)
	if err != nil {
		return nil, err
	}
	r, err := stat.New("rage", rage, rageBounds)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeOrcInvalidRage, err.Error(), err)
	}
	c.trait = &Orc{rage: r}
	return c, nil
}

func (o *Orc) Kind() Kind { return KindOrc }

func (o *Orc) Resource() stat.Value { return o.rage }

// Rage returns the current rage.
func (o *Orc) Rage() int { return o.rage.Current() }

func (o *Orc) DescribeSuffix() string {
	return fmt.Sprintf(" and has %d rage left.", o.rage.Current())
}

// BerserkDamage returns the damage the next berserk would deal.
func (o *Orc) BerserkDamage() int {
	if o.rage.Current() > BoostThreshold {
		return BoostedBerserkDamage
	}
	return BerserkDamage
}

// GoBerserk damages target, doubled above BoostThreshold, then gains
// RageGain rage.
func (o *Orc) GoBerserk(target *Creature) error {
	if target == nil {
		return missingTarget()
	}
	if o.rage.Current() < BerserkMinRage {
		return apperrors.WithMetadata(apperrors.CodeOrcLowRage,
			fmt.Sprintf("rage too low to go berserk [%d]", o.rage.Current()),
			map[string]string{"current": strconv.Itoa(o.rage.Current())})
	}
	if err := target.TakeDamage(o.BerserkDamage()); err != nil {
		return err
	}
	return o.rage.Increase(RageGain)
}

func (o *Orc) Attack(target *Creature) (int, error) {
	dmg := o.BerserkDamage()
	if err := o.GoBerserk(target); err != nil {
		return 0, err
	}
	return dmg, nil
}

// Calm lowers rage by amount, stopping at zero.
func (o *Orc) Calm(amount int) error {
	return o.rage.Decrease(amount)
}
