package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"creaturelab/internal/battle"
	"creaturelab/internal/creature"
	apperrors "creaturelab/internal/platform/errors"
)

func TestViewJSON(t *testing.T) {
	c, err := newTestDragon()
	if err != nil {
		t.Fatalf("dragon: %v", err)
	}
	data, err := json.Marshal(ViewOf(battle.ReportOf(c)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"zartan","kind":"dragon","name":"Zartan","bornOn":"2006-01-20","ageYears":19,` +
		`"health":100,"resource":0,"alive":true,` +
		`"description":"Zartan, born on 2006-01-20 (19) has 100 health and has 0 fire power left."}`
	if string(data) != want {
		t.Fatalf("json =\n%s\nwant\n%s", data, want)
	}
}

func newTestDragon() (*creature.Creature, error) {
	born, err := creature.ParseDate("2006-01-20")
	if err != nil {
		return nil, err
	}
	return creature.NewDragon("Zartan", born, 100, 0, creature.WithID("zartan"))
}

func TestOutcomeOmitsMissingTarget(t *testing.T) {
	c, err := newTestDragon()
	if err != nil {
		t.Fatalf("dragon: %v", err)
	}
	v := OutcomeOf(battle.Outcome{
		Action:  battle.Action{Type: battle.Heal, ActorID: c.ID()},
		Actor:   battle.ReportOf(c),
		Summary: "Zartan heals 0",
	})
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["target"]; ok {
		t.Fatal("expected target to be omitted")
	}
	if raw["type"] != "heal" {
		t.Fatalf("unexpected type %v", raw["type"])
	}
}

func TestCreateCreatureRequestBuild(t *testing.T) {
	tests := []struct {
		name string
		req  CreateCreatureRequest
		kind creature.Kind
		code apperrors.Code
	}{
		{"elf", CreateCreatureRequest{ID: "e1", Kind: "elf", Name: "Elrond", BornOn: "2000-01-01", Health: 50, Resource: 10}, creature.KindElf, ""},
		{"plain", CreateCreatureRequest{Kind: "creature", Name: "Rat", BornOn: "2000-01-01", Health: 5}, creature.KindCreature, ""},
		{"bad kind", CreateCreatureRequest{Kind: "troll", Name: "T", BornOn: "2000-01-01", Health: 5}, "", apperrors.CodeCreatureInvalidKind},
		{"bad date", CreateCreatureRequest{Kind: "elf", Name: "E", BornOn: "yesterday", Health: 5}, "", apperrors.CodeCreatureInvalidBirthFormat},
		{"empty name", CreateCreatureRequest{Kind: "elf", Name: " ", BornOn: "2000-01-01", Health: 5}, "", apperrors.CodeCreatureEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.req.Build()
			if tt.code != "" {
				if got := apperrors.CodeOf(err); got != tt.code {
					t.Fatalf("code = %q, want %q", got, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if c.Kind() != tt.kind {
				t.Fatalf("kind = %s, want %s", c.Kind(), tt.kind)
			}
			if tt.req.ID != "" && c.ID() != tt.req.ID {
				t.Fatalf("id = %s, want %s", c.ID(), tt.req.ID)
			}
		})
	}
}

func TestCreateCreatureRequestTrimsName(t *testing.T) {
	c, err := CreateCreatureRequest{Kind: "orc", Name: "  McGrunk ", BornOn: "2000-04-21", Health: 75}.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if c.Name() != "McGrunk" {
		t.Fatalf("name = %q, want %q", c.Name(), "McGrunk")
	}
}

func TestErrorOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{apperrors.New(apperrors.CodeElfLowMana, "mana is too low to cast spell [0]"), http.StatusConflict, "ELF_LOW_MANA", "mana is too low to cast spell [0]"},
		{fmt.Errorf("wrapped: %w", apperrors.New(apperrors.CodeNotFound, "gone")), http.StatusNotFound, "NOT_FOUND", "wrapped: gone"},
		{apperrors.New(apperrors.CodeOrcLowRage, "rage"), http.StatusConflict, "ORC_LOW_RAGE", "rage"},
		{errors.New("open /var/lib/creatures.db: disk full"), http.StatusInternalServerError, "UNKNOWN", "Internal Server Error"},
	}
	for _, tt := range tests {
		status, body := ErrorOf(tt.err)
		if status != tt.status || body.Code != tt.code {
			t.Errorf("ErrorOf(%v) = %d %s, want %d %s", tt.err, status, body.Code, tt.status, tt.code)
		}
		if body.Message != tt.msg {
			t.Errorf("message = %q, want %q", body.Message, tt.msg)
		}
	}
}

func TestBatchOf(t *testing.T) {
	c, err := newTestDragon()
	if err != nil {
		t.Fatalf("dragon: %v", err)
	}
	v := BatchOf([]battle.Outcome{{
		Action:  battle.Action{Type: battle.Heal, ActorID: c.ID(), Amount: 5},
		Actor:   battle.ReportOf(c),
		Summary: "Zartan heals 5",
	}}, []error{
		fmt.Errorf("failed to execute action 1: %w", apperrors.New(apperrors.CodeDragonLowFirePower, "fire power too low. [0]")),
		errors.New("database is locked"),
	})

	if len(v.Outcomes) != 1 || v.Outcomes[0].Summary != "Zartan heals 5" {
		t.Fatalf("unexpected outcomes %+v", v.Outcomes)
	}
	if len(v.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %+v", v.Errors)
	}
	if v.Errors[0].Code != "DRAGON_LOW_FIRE_POWER" || v.Errors[0].Message != "failed to execute action 1: fire power too low. [0]" {
		t.Errorf("unexpected first error %+v", v.Errors[0])
	}
	if v.Errors[1].Code != "UNKNOWN" || v.Errors[1].Message != "Internal Server Error" {
		t.Errorf("unexpected second error %+v", v.Errors[1])
	}

	data, err := json.Marshal(BatchOf(nil, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"outcomes":[],"errors":[]}` {
		t.Fatalf("empty batch json = %s", data)
	}
}

func TestErrorBodyErr(t *testing.T) {
	err := ErrorBody{Code: "DRAGON_LOW_FIRE_POWER", Message: "fire power too low. [0]"}.Err(http.StatusConflict)
	if apperrors.KindOf(err) != apperrors.KindInsufficientResource {
		t.Fatalf("unexpected kind %s", apperrors.KindOf(err))
	}
	if err.Error() != "fire power too low. [0]" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	err = ErrorBody{}.Err(http.StatusNotFound)
	if apperrors.CodeOf(err) != apperrors.CodeNotFound || err.Error() != "Not Found" {
		t.Fatalf("unexpected error %v (%s)", err, apperrors.CodeOf(err))
	}
}
