// Package stat implements the bounded integer used for health, fire power,
// mana and rage.
//
// Increases saturate at the ceiling and decreases saturate at zero. The floor
// only constrains construction: a stat may be drained below its floor (down to
// empty) by play, and Restore accepts such persisted values back.
package stat

import (
	"fmt"
	"strconv"

	apperrors "creaturelab/internal/platform/errors"
)

// Bounds is the inclusive construction range of a stat.
type Bounds struct {
	Floor   int
	Ceiling int
}

// Contains reports whether n lies within [Floor, Ceiling].
func (b Bounds) Contains(n int) bool {
	return n >= b.Floor && n <= b.Ceiling
}

// Value is a named, bounded integer. The zero Value is an empty stat with a
// zero ceiling.
type Value struct {
	name    string
	current int
	bounds  Bounds
}

// New returns a stat holding initial, which must lie within bounds.
func New(name string, initial int, bounds Bounds) (Value, error) {
	if !bounds.Contains(initial) {
		return Value{}, outOfRange(name, initial, bounds.Floor, bounds.Ceiling)
	}
	return Value{name: name, current: initial, bounds: bounds}, nil
}

// Restore returns a stat holding current, which may be anything from empty to
// the ceiling.
func Restore(name string, current int, bounds Bounds) (Value, error) {
	if current < 0 || current > bounds.Ceiling {
		return Value{}, outOfRange(name, current, 0, bounds.Ceiling)
	}
	return Value{name: name, current: current, bounds: bounds}, nil
}

// Name returns the display name of the stat, e.g. "fire power".
func (v Value) Name() string { return v.name }

// Current returns the current amount.
func (v Value) Current() int { return v.current }

// Covers reports whether cost can be spent.
func (v Value) Covers(cost int) bool { return v.current >= cost }

// Increase adds amount, saturating at the ceiling.
func (v *Value) Increase(amount int) error {
	if amount < 0 {
		return negativeAmount(v.name, amount)
	}
	v.current = min(v.current+amount, v.bounds.Ceiling)
	return nil
}

// Decrease subtracts amount, saturating at zero.
func (v *Value) Decrease(amount int) error {
	if amount < 0 {
		return negativeAmount(v.name, amount)
	}
	v.current = max(v.current-amount, 0)
	return nil
}

// Spend subtracts exactly cost, or fails without changing the stat.
func (v *Value) Spend(cost int) error {
	if cost < 0 {
		return negativeAmount(v.name, cost)
	}
	if !v.Covers(cost) {
		return apperrors.WithMetadata(
			apperrors.CodeInsufficientResource,
			fmt.Sprintf("%s too low [%d]", v.name, v.current),
			map[string]string{"stat": v.name, "current": strconv.Itoa(v.current), "cost": strconv.Itoa(cost)},
		)
	}
	v.current -= cost
	return nil
}

func outOfRange(name string, n, lo, hi int) error {
	return apperrors.WithMetadata(
		apperrors.CodeStatOutOfRange,
		fmt.Sprintf("%s must be between %d and %d, got %d", name, lo, hi, n),
		map[string]string{"stat": name, "value": strconv.Itoa(n)},
	)
}

func negativeAmount(name string, n int) error {
	return apperrors.WithMetadata(
		apperrors.CodeNegativeAmount,
		fmt.Sprintf("%s amount cannot be negative, got %d", name, n),
		map[string]string{"stat": name, "value": strconv.Itoa(n)},
	)
}
