// Package arena parses arena command flags and runs the lab battle.
package arena

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"creaturelab/internal/api"
	"creaturelab/internal/battle"
	"creaturelab/internal/bestiary"
	"creaturelab/internal/client"
	"creaturelab/internal/creature"
	"creaturelab/internal/platform/config"
	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/roster"
)

// Config holds arena command configuration.
type Config struct {
	BestiaryDir   string        `env:"CREATURES_BESTIARY_DIR" envDefault:"data/bestiary"`
	ReferenceDate creature.Date `env:"CREATURES_REFERENCE_DATE" envDefault:"2025-01-23"`
	ServerURL     string        `env:"CREATURES_SERVER_URL"`
	Combatants    Combatants
}

// Combatants names the creatures to fight, matched ignoring case. An empty
// name picks the first creature of that kind enlisted from the bestiary.
type Combatants struct {
	Dragon string `env:"CREATURES_ARENA_DRAGON"`
	Elf    string `env:"CREATURES_ARENA_ELF"`
	Orc    string `env:"CREATURES_ARENA_ORC"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.BestiaryDir, "bestiary", cfg.BestiaryDir, "Directory of YAML creature definitions")
	fs.TextVar(&cfg.ReferenceDate, "reference-date", cfg.ReferenceDate, "Date ages are computed against (YYYY-MM-DD)")
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL to battle on (empty battles locally)")
	fs.StringVar(&cfg.Combatants.Dragon, "dragon", cfg.Combatants.Dragon, "Name of the dragon to fight with")
	fs.StringVar(&cfg.Combatants.Elf, "elf", cfg.Combatants.Elf, "Name of the elf to fight with")
	fs.StringVar(&cfg.Combatants.Orc, "orc", cfg.Combatants.Orc, "Name of the orc to fight with")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Backend is where the battle takes place: a local engine or a remote
// server.
type Backend interface {
	CreateCreature(ctx context.Context, req api.CreateCreatureRequest) (api.CreatureView, error)
	GetCreature(ctx context.Context, id string) (api.CreatureView, error)
	FindCreature(ctx context.Context, name string) (api.CreatureView, error)
	DeleteCreature(ctx context.Context, id string) error
	Act(ctx context.Context, req api.ActionRequest) (api.OutcomeView, error)
	History(ctx context.Context) ([]string, error)
}

// Run loads the bestiary into a backend chosen by cfg and fights the lab
// battle, writing the report to w.
func Run(ctx context.Context, cfg Config, w io.Writer) error {
	var backend Backend
	if cfg.ServerURL != "" {
		c, err := client.New(cfg.ServerURL)
		if err != nil {
			return err
		}
		if err := c.Health(ctx); err != nil {
			return fmt.Errorf("server %s: %w", cfg.ServerURL, err)
		}
		log.Printf("Battling on %s", cfg.ServerURL)
		backend = c
	} else {
		backend = NewLocalBackend(creature.WithReferenceDate(cfg.ReferenceDate))
	}
	return Fight(ctx, backend, loadEntries(cfg.BestiaryDir), cfg.Combatants, w)
}

func loadEntries(dir string) []bestiary.Entry {
	if dir == "" {
		return bestiary.Default()
	}
	entries, err := bestiary.LoadDir(dir)
	if err != nil {
		log.Printf("Warning: bestiary %s: %v", dir, err)
	}
	if len(entries) == 0 {
		log.Println("Using built-in creatures.")
		return bestiary.Default()
	}
	return entries
}

// Fight enlists the entries, prints every description, then runs the lab
// battle: the dragon breathes fire on the elf, the elf casts a spell on the
// dragon and the orc goes berserk on the elf. Running out of a resource is
// reported and the battle goes on; any other error stops it. The creatures
// Fight enlisted are removed from the backend before it returns.
func Fight(ctx context.Context, b Backend, entries []bestiary.Entry, picks Combatants, w io.Writer) error {
	var views []api.CreatureView
	defer func() {
		for _, v := range views {
			if derr := b.DeleteCreature(ctx, v.ID); derr != nil {
				log.Printf("Warning: remove %s (%s): %v", v.Name, v.ID, derr)
			}
		}
	}()

	for _, e := range entries {
		// IDs are left to the backend so a shared server never collides.
		view, err := b.CreateCreature(ctx, api.CreateCreatureRequest{
			Kind:     e.Kind,
			Name:     e.Name,
			BornOn:   e.BornOn,
			Health:   e.Health,
			Resource: e.Resource,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", e.Name, err)
		}
		views = append(views, view)
	}

	dragon, err := pick(ctx, b, views, creature.KindDragon, picks.Dragon)
	if err != nil {
		return err
	}
	elf, err := pick(ctx, b, views, creature.KindElf, picks.Elf)
	if err != nil {
		return err
	}
	orc, err := pick(ctx, b, views, creature.KindOrc, picks.Orc)
	if err != nil {
		return err
	}

	cast := append([]api.CreatureView(nil), views...)
	for _, c := range []api.CreatureView{dragon, elf, orc} {
		if !containsID(cast, c.ID) {
			cast = append(cast, c)
		}
	}

	for _, v := range cast {
		fmt.Fprintln(w, v.Description)
	}
	fmt.Fprintln(w)

	rounds := []struct {
		actor  api.CreatureView
		action battle.ActionType
		target api.CreatureView
	}{
		{dragon, battle.BreatheFire, elf},
		{elf, battle.CastSpell, dragon},
		{orc, battle.GoBerserk, elf},
	}
	for _, r := range rounds {
		out, err := b.Act(ctx, api.ActionRequest{
			Type:     string(r.action),
			ActorID:  r.actor.ID,
			TargetID: r.target.ID,
		})
		if err != nil {
			switch apperrors.KindOf(err) {
			case apperrors.KindInsufficientResource, apperrors.KindRageState:
				fmt.Fprintf(w, "%s: %s\n", r.actor.Name, err)
				continue
			}
			return fmt.Errorf("%s by %s: %w", r.action, r.actor.Name, err)
		}
		fmt.Fprintln(w, out.Summary)
	}
	fmt.Fprintln(w)

	for _, v := range cast {
		current, err := b.GetCreature(ctx, v.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, current.Description)
	}

	history, err := b.History(ctx)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent actions:")
	for _, line := range history {
		fmt.Fprintln(w, line)
	}
	return nil
}

// pick returns the combatant of kind. A named pick is looked up among the
// enlisted creatures first, then on the backend.
func pick(ctx context.Context, b Backend, views []api.CreatureView, kind creature.Kind, name string) (api.CreatureView, error) {
	if name == "" {
		for _, v := range views {
			if v.Kind == string(kind) {
				return v, nil
			}
		}
		return api.CreatureView{}, fmt.Errorf("the arena needs a dragon, an elf and an orc: no %s enlisted", kind)
	}

	var (
		found api.CreatureView
		ok    bool
	)
	for _, v := range views {
		if strings.EqualFold(v.Name, name) {
			found, ok = v, true
			break
		}
	}
	if !ok {
		v, err := b.FindCreature(ctx, name)
		if err != nil {
			return api.CreatureView{}, fmt.Errorf("find %s %q: %w", kind, name, err)
		}
		found = v
	}
	if found.Kind != string(kind) {
		return api.CreatureView{}, fmt.Errorf("%s (%s) cannot fight as the %s", found.Name, found.Kind, kind)
	}
	return found, nil
}

func containsID(views []api.CreatureView, id string) bool {
	for _, v := range views {
		if v.ID == id {
			return true
		}
	}
	return false
}

// LocalBackend battles on an in-process engine.
type LocalBackend struct {
	engine *battle.Engine
	opts   []creature.Option
}

// NewLocalBackend creates an empty in-memory arena.
func NewLocalBackend(opts ...creature.Option) *LocalBackend {
	return &LocalBackend{
		engine: battle.NewEngine(roster.NewInMemoryRoster(nil, opts...)),
		opts:   opts,
	}
}

func (l *LocalBackend) CreateCreature(ctx context.Context, req api.CreateCreatureRequest) (api.CreatureView, error) {
	c, err := req.Build(l.opts...)
	if err != nil {
		return api.CreatureView{}, err
	}
	report, err := l.engine.Enlist(ctx, c)
	if err != nil {
		return api.CreatureView{}, err
	}
	return api.ViewOf(report), nil
}

func (l *LocalBackend) GetCreature(ctx context.Context, id string) (api.CreatureView, error) {
	report, err := l.engine.Inspect(ctx, id)
	if err != nil {
		return api.CreatureView{}, err
	}
	return api.ViewOf(report), nil
}

func (l *LocalBackend) FindCreature(ctx context.Context, name string) (api.CreatureView, error) {
	report, err := l.engine.InspectByName(ctx, name)
	if err != nil {
		return api.CreatureView{}, err
	}
	return api.ViewOf(report), nil
}

func (l *LocalBackend) DeleteCreature(ctx context.Context, id string) error {
	return l.engine.Dismiss(ctx, id)
}

func (l *LocalBackend) History(context.Context) ([]string, error) {
	return l.engine.RecentActions(), nil
}

func (l *LocalBackend) Act(ctx context.Context, req api.ActionRequest) (api.OutcomeView, error) {
	out, err := l.engine.Execute(ctx, req.Action())
	if err != nil {
		return api.OutcomeView{}, err
	}
	return api.OutcomeOf(out), nil
}

var (
	_ Backend = (*LocalBackend)(nil)
	_ Backend = (*client.Client)(nil)
)
