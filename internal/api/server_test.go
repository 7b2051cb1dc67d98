package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/handsim/internal/metrics"
	"github.com/ramonehamilton/handsim/internal/simulator"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *metrics.SimulationMetrics) {
	t.Helper()
	m := metrics.NewSimulationMetrics()
	s := NewServer(cfg, &Services{
		Simulator: simulator.New(simulator.Config{Workers: 2, ChunkSize: 256}, nil),
		Metrics:   m,
	})
	return s, m
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func testDeck() []string {
	deck := make([]string, 0, 40)
	for i := 0; i < 20; i++ {
		deck = append(deck, "Ash Blossom & Joyous Spring", "Filler")
	}
	return deck
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1_000_000, cfg.MaxTrials)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestRunSimulation(t *testing.T) {
	s, m := newTestServer(t, nil)
	seed := uint64(99)

	body := map[string]interface{}{
		"deck":   testDeck(),
		"trials": 2000,
		"turn":   "second",
		"seed":   seed,
		"rules":  "Filler=0,0\nAsh Blossom & Joyous Spring|handtrap:1|2\n",
	}
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/simulations", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ID           string            `json:"id"`
		SkippedLines int               `json:"skipped_lines"`
		Result       *simulator.Result `json:"result"`
	}
	decodeData(t, rec, &resp)
	assert.NotEmpty(t, resp.ID)
	assert.Zero(t, resp.SkippedLines)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 2000, resp.Result.Trials)
	assert.Equal(t, 6, resp.Result.HandSize)
	assert.Equal(t, seed, resp.Result.Seed)
	require.Len(t, resp.Result.Patterns, 1)
	assert.Positive(t, resp.Result.Patterns[0].Count)

	// Same seed, same numbers.
	again := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/simulations", body)
	var second struct {
		Result *simulator.Result `json:"result"`
	}
	decodeData(t, again, &second)
	assert.Equal(t, resp.Result.Mean, second.Result.Mean)
	assert.Equal(t, resp.Result.Best.Trial, second.Result.Best.Trial)

	assert.Equal(t, uint64(2), m.GetStats().Runs)
}

func TestRunSimulation_DeckText(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/simulations", map[string]interface{}{
		"deck_text": "3 Ash Blossom & Joyous Spring\n37x Filler\n",
		"trials":    100,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Result *simulator.Result `json:"result"`
	}
	decodeData(t, rec, &resp)
	assert.Equal(t, 40, resp.Result.DeckSize)
	assert.Equal(t, 5, resp.Result.HandSize)
}

func TestRunSimulation_BadRequests(t *testing.T) {
	s, m := newTestServer(t, &Config{MaxTrials: 1000, RateBurst: 100})

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"empty deck", map[string]interface{}{"trials": 10}},
		{"zero trials", map[string]interface{}{"deck": testDeck(), "trials": 0}},
		{"too many trials", map[string]interface{}{"deck": testDeck(), "trials": 5000}},
		{"hand larger than deck", map[string]interface{}{"deck": []string{"A", "B"}, "trials": 10}},
		{"unknown turn", map[string]interface{}{"deck": testDeck(), "trials": 10, "turn": "third"}},
		{"empty tracked role", map[string]interface{}{"deck": testDeck(), "trials": 10, "tracked_roles": []string{" "}}},
		{"unparseable deck text", map[string]interface{}{"deck_text": "#main\n", "trials": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/simulations", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	// Only the configuration errors the simulator itself rejects reach the observer.
	assert.Equal(t, uint64(3), m.GetStats().Rejected)
}

func TestRunSimulation_InvalidBody(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunSimulation_RequiresJSON(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations", bytes.NewBufferString("trials=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRunSimulation_RateLimited(t *testing.T) {
	s, m := newTestServer(t, &Config{RateInterval: time.Hour, RateBurst: 1})
	body := map[string]interface{}{"deck": testDeck(), "trials": 10}

	first := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/simulations", body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/simulations", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	stats := m.GetStats()
	assert.Equal(t, uint64(1), stats.Runs)
	assert.Equal(t, uint64(1), stats.RateLimited)
}

func TestScoreHand(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/hands/score", map[string]interface{}{
		"hand":  []string{"X", "X"},
		"turn":  "second",
		"rules": "X=unknown,false\nX=2,3\nX|unknown:1|1.5\nbogus line\n",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Score        float64 `json:"score"`
		CardPoints   float64 `json:"card_points"`
		PatternBonus float64 `json:"pattern_bonus"`
		Matched      []bool  `json:"matched"`
		SkippedLines int     `json:"skipped_lines"`
	}
	decodeData(t, rec, &resp)
	assert.Equal(t, 6.0, resp.CardPoints)
	assert.Equal(t, 1.5, resp.PatternBonus)
	assert.Equal(t, 7.5, resp.Score)
	assert.Equal(t, []bool{true}, resp.Matched)
	assert.Equal(t, 1, resp.SkippedLines)
}

func TestScoreHand_EmptyHand(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/hands/score", map[string]interface{}{"hand": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseRules(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/rules/parse", map[string]string{
		"text": "B=1,2\nA=starter,TRUE\nnot a rule\n",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Skipped    int    `json:"skipped"`
		Normalized string `json:"normalized"`
	}
	decodeData(t, rec, &resp)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, "A=starter,true\nB=1,2\n", resp.Normalized)
}

func TestGetRoles(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/v1/roles", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Roles  []string                   `json:"roles"`
		Cards  map[string]json.RawMessage `json:"cards"`
		Combos []json.RawMessage          `json:"combos"`
	}
	decodeData(t, rec, &resp)
	assert.Contains(t, resp.Roles, "starter")
	assert.Contains(t, resp.Roles, "soft garnet")
	assert.NotEmpty(t, resp.Cards)
	assert.NotEmpty(t, resp.Combos)
}

func TestGetMetrics(t *testing.T) {
	s, _ := newTestServer(t, nil)
	doJSON(t, s.Handler(), http.MethodPost, "/api/v1/simulations", map[string]interface{}{"deck": testDeck(), "trials": 50})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats metrics.SimulationStats
	decodeData(t, rec, &stats)
	assert.Equal(t, uint64(1), stats.Runs)
	assert.Equal(t, uint64(50), stats.Trials)
	assert.Equal(t, 1, stats.RunLatency.Count)
}

func TestShutdownWithoutStart(t *testing.T) {
	s, _ := newTestServer(t, &Config{Port: 9123})
	assert.Equal(t, 9123, s.Port())
	assert.NoError(t, s.Shutdown(t.Context()))
}
