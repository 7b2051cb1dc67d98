package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ramonehamilton/handsim/internal/api/response"
	"github.com/ramonehamilton/handsim/internal/evaluator"
	"github.com/ramonehamilton/handsim/internal/rules"
	"github.com/ramonehamilton/handsim/internal/session"
)

// HandHandler scores individual hands.
type HandHandler struct {
	defaults *session.Session
}

// NewHandHandler creates a new HandHandler. defaults may be nil.
func NewHandHandler(defaults *session.Session) *HandHandler {
	return &HandHandler{defaults: defaults}
}

// ScoreHandRequest is one hand to score.
type ScoreHandRequest struct {
	Hand  []string `json:"hand"`
	Turn  string   `json:"turn"`
	Rules *string  `json:"rules,omitempty"`
}

// ScoreHandResponse is the scored breakdown of a hand.
type ScoreHandResponse struct {
	evaluator.Evaluation
	Patterns     []*rules.HandPattern `json:"patterns"`
	SkippedLines int                  `json:"skipped_lines"`
}

// ScoreHand evaluates a single hand.
func (h *HandHandler) ScoreHand(w http.ResponseWriter, r *http.Request) {
	var req ScoreHandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if len(req.Hand) == 0 {
		response.BadRequest(w, errors.New("hand is required"))
		return
	}

	turn, err := rules.ParseTurn(req.Turn)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	rs, skipped := resolveRuleset(req.Rules, h.defaults)
	response.Success(w, ScoreHandResponse{
		Evaluation:   evaluator.New(rs, turn).Evaluate(req.Hand),
		Patterns:     rs.Patterns,
		SkippedLines: skipped,
	})
}
