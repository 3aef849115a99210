package battle

import (
	"fmt"

	"creaturelab/internal/creature"
)

// ActionType names an action a creature can take.
type ActionType string

const (
	// Attacks spend the actor's resource against a target.
	Attack      ActionType = "attack"
	BreatheFire ActionType = "breatheFire"
	CastSpell   ActionType = "castSpell"
	GoBerserk   ActionType = "goBerserk"

	// Self actions change the actor only.
	Heal       ActionType = "heal"
	TakeDamage ActionType = "takeDamage"
	Restore    ActionType = "restore"
	Calm       ActionType = "calm"
)

// NeedsTarget reports whether the action acts on a second creature.
func (t ActionType) NeedsTarget() bool {
	switch t {
	case Attack, BreatheFire, CastSpell, GoBerserk:
		return true
	}
	return false
}

// Action is one request for a creature to act.
type Action struct {
	Type     ActionType
	ActorID  string
	TargetID string
	Amount   int
}

// Report is a consistent read of a creature taken under the engine lock.
type Report struct {
	Snapshot    creature.Snapshot
	AgeYears    int
	Alive       bool
	Description string
}

// ReportOf captures c's current state.
func ReportOf(c *creature.Creature) Report {
	return Report{
		Snapshot:    c.Snapshot(),
		AgeYears:    c.AgeInYears(),
		Alive:       c.IsAlive(),
		Description: c.Describe(),
	}
}

// Outcome is the result of a successful action.
type Outcome struct {
	Action  Action
	Damage  int
	Actor   Report
	Target  *Report
	Summary string
}

func summarize(a Action, actor, target *creature.Creature, damage int) string {
	switch a.Type {
	case Attack:
		return fmt.Sprintf("%s attacks %s for %d damage", actor.Name(), target.Name(), damage)
	case BreatheFire:
		return fmt.Sprintf("%s breathes fire on %s for %d damage", actor.Name(), target.Name(), damage)
	case CastSpell:
		return fmt.Sprintf("%s casts a spell on %s for %d damage", actor.Name(), target.Name(), damage)
	case GoBerserk:
		return fmt.Sprintf("%s goes berserk on %s for %d damage", actor.Name(), target.Name(), damage)
	case Heal:
		return fmt.Sprintf("%s heals %d", actor.Name(), a.Amount)
	case TakeDamage:
		return fmt.Sprintf("%s takes %d damage", actor.Name(), a.Amount)
	case Restore:
		return fmt.Sprintf("%s restores %d %s", actor.Name(), a.Amount, resourceName(actor))
	case Calm:
		return fmt.Sprintf("%s calms down by %d", actor.Name(), a.Amount)
	}
	return fmt.Sprintf("%s performs %s", actor.Name(), a.Type)
}

func resourceName(c *creature.Creature) string {
	if r, ok := c.Resource(); ok {
		return r.Name()
	}
	return "resource"
}
