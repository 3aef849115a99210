package server

import (
	"encoding/json"
	"log"
	"net/http"

	"creaturelab/internal/api"
	"creaturelab/internal/battle"
	"creaturelab/internal/creature"
	apperrors "creaturelab/internal/platform/errors"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type handler struct {
	engine *battle.Engine
	opts   []creature.Option
}

// NewHandler returns the JSON API wrapped in CORS handling for origin.
// opts apply to creatures created through the API.
func NewHandler(engine *battle.Engine, origin string, opts ...creature.Option) http.Handler {
	h := &handler{engine: engine, opts: opts}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /creatures", h.listCreatures)
	mux.HandleFunc("POST /creatures", h.createCreature)
	mux.HandleFunc("GET /creatures/{id}", h.getCreature)
	mux.HandleFunc("DELETE /creatures/{id}", h.deleteCreature)
	mux.HandleFunc("POST /actions", h.act)
	mux.HandleFunc("POST /actions/batch", h.actBatch)
	mux.HandleFunc("GET /history", h.history)
	return corsMiddleware(origin, mux)
}

// corsMiddleware adds the CORS headers the frontend needs and answers
// preflight requests itself.
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthView{Status: "ok"})
}

// listCreatures lists the roster, or with ?name= the first creature whose
// name matches ignoring case.
func (h *handler) listCreatures(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("name") {
		writeJSON(w, http.StatusOK, api.ViewsOf(h.engine.InspectAll(r.Context())))
		return
	}
	report, err := h.engine.InspectByName(r.Context(), query.Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, []api.CreatureView{api.ViewOf(report)})
}

func (h *handler) createCreature(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCreatureRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := req.Build(h.opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := h.engine.Enlist(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, api.ViewOf(report))
}

func (h *handler) getCreature(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Inspect(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ViewOf(report))
}

func (h *handler) deleteCreature(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Dismiss(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) act(w http.ResponseWriter, r *http.Request) {
	var req api.ActionRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.engine.Execute(r.Context(), req.Action())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.OutcomeOf(out))
}

// actBatch runs every action in order and always answers 200; failed
// actions are reported next to the outcomes.
func (h *handler) actBatch(w http.ResponseWriter, r *http.Request) {
	var req api.BatchRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Actions) == 0 {
		writeError(w, apperrors.New(apperrors.CodeActionInvalid, "batch needs at least one action"))
		return
	}
	outcomes, errs := h.engine.ExecuteActions(r.Context(), req.EngineActions())
	for _, err := range errs {
		if status, _ := api.ErrorOf(err); status >= http.StatusInternalServerError {
			log.Printf("Error handling request: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, api.BatchOf(outcomes, errs))
}

func (h *handler) history(w http.ResponseWriter, _ *http.Request) {
	actions := h.engine.RecentActions()
	if actions == nil {
		actions = []string{}
	}
	writeJSON(w, http.StatusOK, api.HistoryView{Actions: actions})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeActionInvalid, "invalid request body: "+err.Error(), err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status, body := api.ErrorOf(err)
	if status >= http.StatusInternalServerError {
		log.Printf("Error handling request: %v", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
