package creature

import (
	"fmt"
	"strconv"

	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/stat"
)

const (
	MinFirePower    = 0
	MaxFirePower    = 100
	FirePowerCost   = 10
	FirePowerDamage = 20
)

var firePowerBounds = stat.Bounds{Floor: MinFirePower, Ceiling: MaxFirePower}

// Dragon breathes fire, spending fire power.
type Dragon struct {
	firePower stat.Value
}

// NewDragon constructs a dragon creature.
func NewDragon(name string, born Date, health, firePower int, opts ...Option) (*Creature, error) {
	c, err := newBase(name, born, health, opts)
	if err != nil {
		return nil, err
	}
	fp, err := stat.New("fire power", firePower, firePowerBounds)
	if err != nil {
		return nil, err
	}
	c.trait = &Dragon{firePower: fp}
	return c, nil
}

func (d *Dragon) Kind() Kind { return KindDragon }

func (d *Dragon) Resource() stat.Value { return d.firePower }

// FirePower returns the fire power left.
func (d *Dragon) FirePower() int { return d.firePower.Current() }

func (d *Dragon) DescribeSuffix() string {
	return fmt.Sprintf(" and has %d fire power left.", d.firePower.Current())
}

// BreatheFire spends FirePowerCost and deals FirePowerDamage to target.
func (d *Dragon) BreatheFire(target *Creature) error {
	if target == nil {
		return missingTarget()
	}
	if !d.firePower.Covers(FirePowerCost) {
		return apperrors.WithMetadata(apperrors.CodeDragonLowFirePower,
			fmt.Sprintf("fire power too low. [%d]", d.firePower.Current()),
			map[string]string{"current": strconv.Itoa(d.firePower.Current())})
	}
	// Neither step can fail once the checks above pass.
	if err := d.firePower.Spend(FirePowerCost); err != nil {
		return err
	}
	return target.TakeDamage(FirePowerDamage)
}

func (d *Dragon) Attack(target *Creature) (int, error) {
	if err := d.BreatheFire(target); err != nil {
		return 0, err
	}
	return FirePowerDamage, nil
}

// RestoreFirePower adds amount, stopping at MaxFirePower.
func (d *Dragon) RestoreFirePower(amount int) error {
	if amount < 0 {
		return apperrors.New(apperrors.CodeNegativeAmount, "fire power cannot be negative")
	}
	return d.firePower.Increase(amount)
}

func (d *Dragon) Restore(amount int) error { return d.RestoreFirePower(amount) }
