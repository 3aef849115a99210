// Package bestiary loads creature definitions from YAML files and seeds them
// into a roster.
package bestiary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"creaturelab/internal/creature"
	apperrors "creaturelab/internal/platform/errors"
	"creaturelab/internal/roster"
)

// Entry is one creature definition.
type Entry struct {
	ID       string `yaml:"id"`
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	BornOn   string `yaml:"born_on"`
	Health   int    `yaml:"health"`
	Resource int    `yaml:"resource"`
}

type document struct {
	Creatures []Entry `yaml:"creatures"`
}

// Default returns the lab's built-in trio.
func Default() []Entry {
	return []Entry{
		{ID: "zartan", Kind: "dragon", Name: "Zartan", BornOn: "2006-01-20", Health: 100, Resource: 0},
		{ID: "sir-elfizar", Kind: "elf", Name: "Sir Elfizar", BornOn: "2005-07-15", Health: 50, Resource: 0},
		{ID: "grunk", Kind: "orc", Name: "Grunk", BornOn: "2000-04-21", Health: 75, Resource: 25},
	}
}

// Parse decodes one YAML document and trims IDs and names. Names keep their
// case.
func Parse(data []byte) ([]Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Creatures {
		doc.Creatures[i].ID = strings.TrimSpace(doc.Creatures[i].ID)
		doc.Creatures[i].Name = strings.TrimSpace(doc.Creatures[i].Name)
	}
	return doc.Creatures, nil
}

// LoadDir reads every .yaml/.yml file below dir. Errors are collected per
// file; entries from valid files are still returned alongside the joined
// error.
func LoadDir(dir string) ([]Entry, error) {
	var (
		entries    []Entry
		loadErrors []error
		seen       = make(map[string]string)
	)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if d.IsDir() || (ext != ".yaml" && ext != ".yml") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			loadErrors = append(loadErrors, fmt.Errorf("read bestiary file %s: %w", d.Name(), err))
			return nil
		}
		parsed, err := Parse(content)
		if err != nil {
			loadErrors = append(loadErrors, fmt.Errorf("parse bestiary file %s: %w", d.Name(), err))
			return nil
		}

		for _, e := range parsed {
			if e.ID != "" {
				if prev, dup := seen[e.ID]; dup {
					loadErrors = append(loadErrors, fmt.Errorf("duplicate creature id %q in %s (first seen in %s)", e.ID, d.Name(), prev))
					continue
				}
				seen[e.ID] = d.Name()
			}
			entries = append(entries, e)
		}
		log.Printf("bestiary: loaded %d creature(s) from %s", len(parsed), d.Name())
		return nil
	})
	if err != nil {
		loadErrors = append(loadErrors, fmt.Errorf("walk bestiary directory %s: %w", dir, err))
	}

	return entries, errors.Join(loadErrors...)
}

// Build constructs the creature the entry describes.
func (e Entry) Build(opts ...creature.Option) (*creature.Creature, error) {
	kind, err := creature.ParseKind(e.Kind)
	if err != nil {
		return nil, err
	}
	born, err := creature.ParseDate(e.BornOn)
	if err != nil {
		return nil, err
	}
	if e.ID != "" {
		opts = append(opts, creature.WithID(e.ID))
	}
	return creature.NewOfKind(kind, e.Name, born, e.Health, e.Resource, opts...)
}

// Seed builds each entry and adds it to the roster. Entries whose ID is
// already in the roster are skipped, so reseeding a persisted roster keeps
// its state.
func Seed(ctx context.Context, m roster.Manager, entries []Entry, opts ...creature.Option) (int, error) {
	added := 0
	for _, e := range entries {
		if e.ID != "" {
			if _, err := m.Get(ctx, e.ID); err == nil {
				continue
			} else if apperrors.KindOf(err) != apperrors.KindNotFound {
				return added, err
			}
		}
		c, err := e.Build(opts...)
		if err != nil {
			return added, fmt.Errorf("build %s: %w", e.Name, err)
		}
		if err := m.Add(ctx, c); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
