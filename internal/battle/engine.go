// Package battle applies creature actions against the roster.
package battle

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"creaturelab/internal/creature"
	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/roster"
)

// DefaultHistorySize is how many action summaries the engine keeps.
const DefaultHistorySize = 5

const tracerName = "creaturelab/internal/battle"

// Option configures an Engine.
type Option func(*Engine)

// WithHistorySize bounds the recent action log. Values below one keep the
// default.
func WithHistorySize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historySize = n
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// Engine serializes every action and inspection so a reader never sees a
// half-applied attack.
type Engine struct {
	roster      roster.Manager
	tracer      trace.Tracer
	historySize int

	mu      sync.Mutex
	history []string
}

// NewEngine creates an engine over the roster.
func NewEngine(r roster.Manager, opts ...Option) *Engine {
	if r == nil {
		panic("roster cannot be nil for Engine")
	}
	e := &Engine{
		roster:      r,
		tracer:      otel.Tracer(tracerName),
		historySize: DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute applies a single action and persists the creatures it touched.
func (e *Engine) Execute(ctx context.Context, a Action) (out Outcome, err error) {
	ctx, span := e.tracer.Start(ctx, "battle.Execute", trace.WithAttributes(
		attribute.String("battle.action", string(a.Type)),
		attribute.String("battle.actor_id", a.ActorID),
		attribute.String("battle.target_id", a.TargetID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("battle.error_code", string(apperrors.CodeOf(err))))
		} else {
			span.SetAttributes(attribute.Int("battle.damage", out.Damage))
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, err := e.roster.Get(ctx, a.ActorID)
	if err != nil {
		return Outcome{}, err
	}
	var target *creature.Creature
	if a.Type.NeedsTarget() {
		if a.TargetID == "" {
			return Outcome{}, apperrors.New(apperrors.CodeMissingTarget,
				fmt.Sprintf("%s needs a target", a.Type))
		}
		if target, err = e.roster.Get(ctx, a.TargetID); err != nil {
			return Outcome{}, err
		}
	}

	touched := []*creature.Creature{actor}
	if target != nil && target != actor {
		touched = append(touched, target)
	}
	before := make([]creature.Snapshot, len(touched))
	for i, c := range touched {
		before[i] = c.Snapshot()
	}

	damage, err := apply(a, actor, target)
	if err != nil {
		return Outcome{}, err
	}

	// A failed save must not leave the action applied in memory.
	if err := e.roster.Save(ctx, touched...); err != nil {
		for i, c := range touched {
			if rerr := c.Revert(before[i]); rerr != nil {
				log.Printf("battle: revert %s after failed save: %v", c.ID(), rerr)
			}
		}
		return Outcome{}, err
	}

	out = Outcome{
		Action:  a,
		Damage:  damage,
		Actor:   ReportOf(actor),
		Summary: summarize(a, actor, target, damage),
	}
	if target != nil {
		r := ReportOf(target)
		out.Target = &r
	}
	e.record(out.Summary)
	return out, nil
}

// ExecuteActions applies actions in order. It returns the outcomes of those
// that succeeded plus one error per failed action; a failure does not stop
// the remaining actions.
func (e *Engine) ExecuteActions(ctx context.Context, actions []Action) ([]Outcome, []error) {
	var (
		outcomes []Outcome
		errs     []error
	)
	for i, a := range actions {
		out, err := e.Execute(ctx, a)
		if err != nil {
			wrapped := fmt.Errorf("failed to execute action %d (type: %s, actor: %s): %w", i, a.Type, a.ActorID, err)
			log.Printf("battle: %v", wrapped)
			errs = append(errs, wrapped)
			continue
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, errs
}

// Enlist adds a creature to the roster under the engine lock.
func (e *Engine) Enlist(ctx context.Context, c *creature.Creature) (Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.roster.Add(ctx, c); err != nil {
		return Report{}, err
	}
	return ReportOf(c), nil
}

// Dismiss removes a creature from the roster under the engine lock.
func (e *Engine) Dismiss(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roster.Remove(ctx, id)
}

// Inspect reports one creature.
func (e *Engine) Inspect(ctx context.Context, id string) (Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.roster.Get(ctx, id)
	if err != nil {
		return Report{}, err
	}
	return ReportOf(c), nil
}

// InspectByName reports the first creature, in roster order, whose name
// matches ignoring case.
func (e *Engine) InspectByName(ctx context.Context, name string) (Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.roster.FindByName(ctx, name)
	if err != nil {
		return Report{}, err
	}
	return ReportOf(c), nil
}

// InspectAll reports every creature in roster order.
func (e *Engine) InspectAll(ctx context.Context) []Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	creatures := e.roster.List(ctx)
	out := make([]Report, 0, len(creatures))
	for _, c := range creatures {
		out = append(out, ReportOf(c))
	}
	return out
}

// RecentActions returns the newest action summaries, oldest first.
func (e *Engine) RecentActions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.history...)
}

func (e *Engine) record(summary string) {
	e.history = append(e.history, summary)
	if len(e.history) > e.historySize {
		e.history = e.history[len(e.history)-e.historySize:]
	}
}

// apply performs the action and returns the damage it dealt.
func apply(a Action, actor, target *creature.Creature) (int, error) {
	switch a.Type {
	case Attack:
		return actor.Attack(target)
	case BreatheFire:
		d, ok := actor.AsDragon()
		if !ok {
			return 0, unsupported(a.Type, actor)
		}
		if err := d.BreatheFire(target); err != nil {
			return 0, err
		}
		return creature.FirePowerDamage, nil
	case CastSpell:
		el, ok := actor.AsElf()
		if !ok {
			return 0, unsupported(a.Type, actor)
		}
		if err := el.CastSpell(target); err != nil {
			return 0, err
		}
		return creature.SpellPower, nil
	case GoBerserk:
		o, ok := actor.AsOrc()
		if !ok {
			return 0, unsupported(a.Type, actor)
		}
		dmg := o.BerserkDamage()
		if err := o.GoBerserk(target); err != nil {
			return 0, err
		}
		return dmg, nil
	case Heal:
		return 0, actor.Heal(a.Amount)
	case TakeDamage:
		if err := actor.TakeDamage(a.Amount); err != nil {
			return 0, err
		}
		return a.Amount, nil
	case Restore:
		return 0, actor.Restore(a.Amount)
	case Calm:
		o, ok := actor.AsOrc()
		if !ok {
			return 0, unsupported(a.Type, actor)
		}
		return 0, o.Calm(a.Amount)
	}
	return 0, apperrors.New(apperrors.CodeActionInvalid,
		fmt.Sprintf("unknown or unsupported action type: '%s'", a.Type))
}

func unsupported(t ActionType, c *creature.Creature) error {
	return apperrors.New(apperrors.CodeActionUnsupported,
		fmt.Sprintf("%s (%s) cannot %s", c.Name(), c.Kind(), t))
}
