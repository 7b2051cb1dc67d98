package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ramonehamilton/handsim/internal/api/response"
	"github.com/ramonehamilton/handsim/internal/rules"
	"github.com/ramonehamilton/handsim/internal/session"
)

// RulesHandler handles rule configuration requests.
type RulesHandler struct{}

// NewRulesHandler creates a new RulesHandler.
func NewRulesHandler() *RulesHandler {
	return &RulesHandler{}
}

// ParseRulesRequest carries rule configuration text.
type ParseRulesRequest struct {
	Text string `json:"text"`
}

// ParseRulesResponse is the parsed session plus its normalized text form.
type ParseRulesResponse struct {
	*session.Session
	Normalized string `json:"normalized"`
}

// ParseRules parses rule configuration text. Malformed lines are skipped and
// counted, never rejected.
func (h *RulesHandler) ParseRules(w http.ResponseWriter, r *http.Request) {
	var req ParseRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	s := session.Parse(req.Text)
	response.Success(w, ParseRulesResponse{Session: s, Normalized: session.Encode(s)})
}

// RolesResponse lists the role vocabulary and the built-in card tables.
type RolesResponse struct {
	Roles   []rules.Role                 `json:"roles"`
	Cards   map[string]rules.CardInfo    `json:"cards"`
	Weights map[string]rules.WeightEntry `json:"weights"`
	Combos  []rules.ComboRule            `json:"combos"`
}

// GetRoles returns the built-in scoring tables.
func (h *RulesHandler) GetRoles(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, RolesResponse{
		Roles:   rules.KnownRoles,
		Cards:   rules.BuiltinRoles(),
		Weights: rules.BuiltinWeights(),
		Combos:  rules.DefaultComboRules(),
	})
}
