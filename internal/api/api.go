// Package api defines the JSON shapes exchanged by the server and client.
package api

import (
	"net/http"

	"creaturelab/internal/battle"
	"creaturelab/internal/creature"
	apperrors "creaturelab/internal/platform/errors"
)

// CreatureView is the wire form of a creature.
type CreatureView struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	BornOn      string `json:"bornOn"`
	AgeYears    int    `json:"ageYears"`
	Health      int    `json:"health"`
	Resource    int    `json:"resource"`
	Alive       bool   `json:"alive"`
	Description string `json:"description"`
}

// CreateCreatureRequest is the body of POST /creatures. ID is optional.
type CreateCreatureRequest struct {
	ID       string `json:"id,omitempty"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	BornOn   string `json:"bornOn"`
	Health   int    `json:"health"`
	Resource int    `json:"resource"`
}

// ActionRequest is the body of POST /actions.
type ActionRequest struct {
	Type     string `json:"type"`
	ActorID  string `json:"actorId"`
	TargetID string `json:"targetId,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

// OutcomeView is the wire form of a successful action.
type OutcomeView struct {
	Type    string        `json:"type"`
	Damage  int           `json:"damage"`
	Actor   CreatureView  `json:"actor"`
	Target  *CreatureView `json:"target,omitempty"`
	Summary string        `json:"summary"`
}

// BatchRequest is the body of POST /actions/batch.
type BatchRequest struct {
	Actions []ActionRequest `json:"actions"`
}

// BatchView reports a batch: the outcomes of the actions that succeeded and
// one error per action that failed, both in request order.
type BatchView struct {
	Outcomes []OutcomeView `json:"outcomes"`
	Errors   []ErrorBody   `json:"errors"`
}

// HistoryView is the body of GET /history.
type HistoryView struct {
	Actions []string `json:"actions"`
}

// HealthView is the body of GET /health.
type HealthView struct {
	Status string `json:"status"`
}

// ErrorBody is returned with every failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// ViewOf converts an engine report.
func ViewOf(r battle.Report) CreatureView {
	return CreatureView{
		ID:          r.Snapshot.ID,
		Kind:        string(r.Snapshot.Kind),
		Name:        r.Snapshot.Name,
		BornOn:      r.Snapshot.Born.String(),
		AgeYears:    r.AgeYears,
		Health:      r.Snapshot.Health,
		Resource:    r.Snapshot.Resource,
		Alive:       r.Alive,
		Description: r.Description,
	}
}

// ViewsOf converts a list of reports.
func ViewsOf(reports []battle.Report) []CreatureView {
	out := make([]CreatureView, 0, len(reports))
	for _, r := range reports {
		out = append(out, ViewOf(r))
	}
	return out
}

// OutcomeOf converts an engine outcome.
func OutcomeOf(o battle.Outcome) OutcomeView {
	v := OutcomeView{
		Type:    string(o.Action.Type),
		Damage:  o.Damage,
		Actor:   ViewOf(o.Actor),
		Summary: o.Summary,
	}
	if o.Target != nil {
		t := ViewOf(*o.Target)
		v.Target = &t
	}
	return v
}

// BatchOf converts the result of a batch run.
func BatchOf(outcomes []battle.Outcome, errs []error) BatchView {
	v := BatchView{
		Outcomes: make([]OutcomeView, 0, len(outcomes)),
		Errors:   make([]ErrorBody, 0, len(errs)),
	}
	for _, o := range outcomes {
		v.Outcomes = append(v.Outcomes, OutcomeOf(o))
	}
	for _, err := range errs {
		_, body := ErrorOf(err)
		v.Errors = append(v.Errors, body)
	}
	return v
}

// Build constructs the requested creature.
func (r CreateCreatureRequest) Build(opts ...creature.Option) (*creature.Creature, error) {
	kind, err := creature.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	born, err := creature.ParseDate(r.BornOn)
	if err != nil {
		return nil, err
	}
	if r.ID != "" {
		opts = append(opts, creature.WithID(r.ID))
	}
	return creature.NewOfKind(kind, r.Name, born, r.Health, r.Resource, opts...)
}

// EngineActions converts every request in the batch.
func (r BatchRequest) EngineActions() []battle.Action {
	out := make([]battle.Action, 0, len(r.Actions))
	for _, a := range r.Actions {
		out = append(out, a.Action())
	}
	return out
}

// Action converts the request for the engine.
func (r ActionRequest) Action() battle.Action {
	return battle.Action{
		Type:     battle.ActionType(r.Type),
		ActorID:  r.ActorID,
		TargetID: r.TargetID,
		Amount:   r.Amount,
	}
}

// ErrorOf maps err to its HTTP status and body. Server failures carry only
// the status text; the caller logs the detail.
func ErrorOf(err error) (int, ErrorBody) {
	code := apperrors.CodeOf(err)
	status := code.Kind().HTTPStatus()
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	return status, ErrorBody{Code: string(code), Message: msg}
}

// Err turns a decoded body back into a domain error. status is used when the
// body carries no code.
func (b ErrorBody) Err(status int) error {
	code := apperrors.Code(b.Code)
	if code == "" {
		code = apperrors.CodeUnknown
		if status == http.StatusNotFound {
			code = apperrors.CodeNotFound
		}
	}
	msg := b.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return apperrors.New(code, msg)
}
