// Package handlers implements the REST endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ramonehamilton/handsim/internal/api/response"
	"github.com/ramonehamilton/handsim/internal/deckimport"
	"github.com/ramonehamilton/handsim/internal/metrics"
	"github.com/ramonehamilton/handsim/internal/rules"
	"github.com/ramonehamilton/handsim/internal/session"
	"github.com/ramonehamilton/handsim/internal/simulator"
)

// SimulationHandler runs simulations.
type SimulationHandler struct {
	sim       *simulator.Simulator
	metrics   *metrics.SimulationMetrics
	limiter   *rate.Limiter
	parser    *deckimport.Parser
	defaults  *session.Session
	maxTrials int
}

// SimulationOptions configures a SimulationHandler.
type SimulationOptions struct {
	Simulator *simulator.Simulator
	Metrics   *metrics.SimulationMetrics // optional
	Resolver  deckimport.Resolver        // optional, for YDK deck text
	Defaults  *session.Session           // rules used when a request sends none
	MaxTrials int
	RateLimit rate.Limit
	RateBurst int
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(opts SimulationOptions) *SimulationHandler {
	return &SimulationHandler{
		sim:       opts.Simulator,
		metrics:   opts.Metrics,
		limiter:   rate.NewLimiter(opts.RateLimit, opts.RateBurst),
		parser:    deckimport.NewParser(opts.Resolver),
		defaults:  opts.Defaults,
		maxTrials: opts.MaxTrials,
	}
}

// SimulationRequest describes a run. Either Deck or DeckText must be set.
type SimulationRequest struct {
	Deck         []string `json:"deck,omitempty"`
	DeckText     string   `json:"deck_text,omitempty"` // .ydk or plain card list
	Rules        *string  `json:"rules,omitempty"`     // rule configuration text
	Trials       int      `json:"trials"`
	Turn         string   `json:"turn"`
	Seed         *uint64  `json:"seed,omitempty"` // random when omitted
	TrackedRoles []string `json:"tracked_roles,omitempty"`
}

// SimulationResponse is a finished run.
type SimulationResponse struct {
	ID           string            `json:"id"`
	SkippedLines int               `json:"skipped_lines"`
	Unresolved   []int             `json:"unresolved,omitempty"`
	Result       *simulator.Result `json:"result"`
}

// RunSimulation runs a simulation and returns its result.
func (h *SimulationHandler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		if h.metrics != nil {
			h.metrics.IncrementRateLimited()
		}
		response.TooManyRequests(w, errors.New("too many simulations, try again shortly"))
		return
	}

	var req SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if h.maxTrials > 0 && req.Trials > h.maxTrials {
		response.BadRequest(w, fmt.Errorf("trials %d exceeds the limit of %d", req.Trials, h.maxTrials))
		return
	}

	turn, err := rules.ParseTurn(req.Turn)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	tracked, err := parseTrackedRoles(req.TrackedRoles)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	resp := &SimulationResponse{ID: uuid.New().String()}

	deck := req.Deck
	if len(deck) == 0 && req.DeckText != "" {
		parsed, err := h.parser.Parse(r.Context(), req.DeckText)
		if err != nil {
			response.BadRequest(w, fmt.Errorf("deck: %w", err))
			return
		}
		deck = parsed.Cards()
		resp.Unresolved = parsed.Unresolved
	}

	rs, skipped := resolveRuleset(req.Rules, h.defaults)
	resp.SkippedLines = skipped

	seed := uint64(time.Now().UnixNano())
	if req.Seed != nil {
		seed = *req.Seed
	}

	result, err := h.sim.Run(r.Context(), simulator.Request{
		Deck:         deck,
		Trials:       req.Trials,
		Turn:         turn,
		Rules:        rs,
		Seed:         seed,
		TrackedRoles: tracked,
	})
	if err != nil {
		writeRunError(w, err)
		return
	}

	resp.Result = result
	response.Success(w, resp)
}

func writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, simulator.ErrEmptyDeck),
		errors.Is(err, simulator.ErrInvalidTrials),
		errors.Is(err, simulator.ErrHandTooLarge):
		response.BadRequest(w, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.ServiceUnavailable(w, errors.New("simulation was cancelled"))
	default:
		response.InternalError(w, err)
	}
}

func parseTrackedRoles(names []string) ([]rules.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	roles := make([]rules.Role, len(names))
	for i, name := range names {
		role, _ := rules.ParseRole(name)
		if role == "" {
			return nil, errors.New("tracked role names cannot be empty")
		}
		roles[i] = role
	}
	return roles, nil
}

// resolveRuleset builds the ruleset for a request: the request's own rule text
// when present, else the server defaults, else the built-in tables.
func resolveRuleset(text *string, defaults *session.Session) (*rules.Ruleset, int) {
	switch {
	case text != nil:
		s := session.Parse(*text)
		return s.Ruleset(), s.Skipped
	case defaults != nil:
		return defaults.Ruleset(), 0
	default:
		return rules.DefaultRuleset(), 0
	}
}
