// Package simulator draws random opening hands from a deck, scores them and
// aggregates the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/handsim/internal/evaluator"
	"github.com/ramonehamilton/handsim/internal/rules"
	"github.com/ramonehamilton/handsim/internal/stats"
)

// Configuration errors. They are returned before any sampling starts.
var (
	ErrEmptyDeck     = errors.New("deck is empty")
	ErrInvalidTrials = errors.New("trial count must be positive")
	ErrHandTooLarge  = errors.New("hand size exceeds deck size")
)

// cancelCheckInterval is how many trials run between context checks.
const cancelCheckInterval = 256

// Config tunes how a run is executed. It never changes the numbers a run
// produces for a given seed, except ChunkSize which fixes how trials map to
// random streams.
type Config struct {
	// Workers bounds the number of chunks evaluated concurrently.
	// Default: runtime.NumCPU()
	Workers int

	// ChunkSize is the number of consecutive trials that share one random
	// stream. Default: 4096
	ChunkSize int

	// DistributionBins is the number of score histogram buckets. Default: 20
	DistributionBins int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Workers:          runtime.NumCPU(),
		ChunkSize:        4096,
		DistributionBins: 20,
	}
}

// RunObserver is notified once per run, including rejected and abandoned runs.
type RunObserver interface {
	ObserveRun(trials int, elapsed time.Duration, err error)
}

// Request describes one simulation run.
type Request struct {
	Deck   []string
	Trials int
	Turn   rules.Turn
	Rules  *rules.Ruleset // nil means rules.DefaultRuleset()
	Seed   uint64

	// TrackedRoles selects the roles reported per hand.
	// Default: rules.DefaultTrackedRoles
	TrackedRoles []rules.Role
}

// Validate checks the request for configuration errors.
func (r Request) Validate() error {
	if len(r.Deck) == 0 {
		return ErrEmptyDeck
	}
	if r.Trials <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTrials, r.Trials)
	}
	if hs := r.Turn.HandSize(); hs > len(r.Deck) {
		return fmt.Errorf("%w: hand size %d, deck size %d", ErrHandTooLarge, hs, len(r.Deck))
	}
	return nil
}

// Simulator runs Monte Carlo simulations.
type Simulator struct {
	config   Config
	logger   *slog.Logger
	observer RunObserver
}

// New creates a Simulator. Zero fields of cfg take their defaults; a nil
// logger discards output.
func New(cfg Config, logger *slog.Logger) *Simulator {
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaults.ChunkSize
	}
	if cfg.DistributionBins <= 0 {
		cfg.DistributionBins = defaults.DistributionBins
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulator{config: cfg, logger: logger}
}

// WithObserver attaches an observer and returns the simulator.
func (s *Simulator) WithObserver(o RunObserver) *Simulator {
	s.observer = o
	return s
}

// Run executes the request. Configuration errors are reported before any
// sampling. If ctx is cancelled the run is abandoned between trials and
// ctx.Err() is returned; no partial result is produced.
func (s *Simulator) Run(ctx context.Context, req Request) (result *Result, err error) {
	start := time.Now()
	defer func() {
		if s.observer != nil {
			s.observer.ObserveRun(req.Trials, time.Since(start), err)
		}
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Rules == nil {
		req.Rules = rules.DefaultRuleset()
	}
	if len(req.TrackedRoles) == 0 {
		req.TrackedRoles = rules.DefaultTrackedRoles
	}

	chunks := (req.Trials + s.config.ChunkSize - 1) / s.config.ChunkSize
	s.logger.Info("simulation started",
		"trials", req.Trials,
		"turn", req.Turn.String(),
		"deck_size", len(req.Deck),
		"patterns", len(req.Rules.Patterns),
		"chunks", chunks,
		"workers", s.config.Workers,
		"seed", req.Seed)

	ev := evaluator.New(req.Rules, req.Turn)
	scores := make([]float64, req.Trials)
	partials := make([]*partial, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for c := 0; c < chunks; c++ {
		lo := c * s.config.ChunkSize
		hi := min(lo+s.config.ChunkSize, req.Trials)
		g.Go(func() error {
			p, err := runChunk(gctx, &req, ev, c, lo, hi, scores)
			if err != nil {
				return err
			}
			partials[c] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("simulation abandoned", "error", err, "elapsed", time.Since(start))
		return nil, err
	}

	result = s.buildResult(&req, partials, scores)
	s.logger.Info("simulation finished",
		"trials", req.Trials,
		"mean", result.Mean,
		"elapsed", time.Since(start))
	return result, nil
}

// buildResult merges chunk partials in chunk order. Because chunks cover
// consecutive trial ranges, strict comparisons keep the earliest trial among
// equal best or worst scores, exactly as a sequential loop would.
func (s *Simulator) buildResult(req *Request, partials []*partial, scores []float64) *Result {
	var total float64
	best, worst := partials[0].best, partials[0].worst
	roleTotals := make([]int, len(req.TrackedRoles))
	patternCounts := make([]int, len(req.Rules.Patterns))

	for _, p := range partials {
		total += p.sum
		if p.best.Score > best.Score {
			best = p.best
		}
		if p.worst.Score < worst.Score {
			worst = p.worst
		}
		for i, n := range p.roleTotals {
			roleTotals[i] += n
		}
		for i, n := range p.patternCounts {
			patternCounts[i] += n
		}
	}

	trials := float64(req.Trials)
	mean := total / trials
	summary := stats.Summarize(scores, mean)

	averages := make([]RoleAverage, len(req.TrackedRoles))
	for i, role := range req.TrackedRoles {
		averages[i] = RoleAverage{Role: role, Average: float64(roleTotals[i]) / trials}
	}

	patterns := make([]PatternCount, len(req.Rules.Patterns))
	for i, pattern := range req.Rules.Patterns {
		patterns[i] = PatternCount{
			Pattern: pattern.Clone(),
			Count:   patternCounts[i],
			Rate:    float64(patternCounts[i]) / trials * 100,
		}
	}

	return &Result{
		Trials:       req.Trials,
		Turn:         req.Turn,
		HandSize:     req.Turn.HandSize(),
		DeckSize:     len(req.Deck),
		Seed:         req.Seed,
		Mean:         summary.Mean,
		Median:       summary.Median,
		Variance:     summary.Variance,
		StdDev:       summary.StdDev,
		P5:           summary.P5,
		P95:          summary.P95,
		Best:         best,
		Worst:        worst,
		RoleAverages: averages,
		Patterns:     patterns,
		Distribution: stats.Distribution(scores, s.config.DistributionBins),
	}
}

// partial holds the aggregates of one chunk of consecutive trials.
type partial struct {
	sum           float64
	best          Hand
	worst         Hand
	roleTotals    []int
	patternCounts []int
}

// runChunk runs trials [lo, hi) on the random stream of chunk c, writing each
// score into scores[i]. The deck buffer is private to the chunk.
func runChunk(ctx context.Context, req *Request, ev *evaluator.Evaluator, c, lo, hi int, scores []float64) (*partial, error) {
	rng := rand.New(rand.NewPCG(req.Seed, streamSeed(req.Seed, c)))
	deck := make([]string, len(req.Deck))
	copy(deck, req.Deck)
	handSize := req.Turn.HandSize()

	p := &partial{
		roleTotals:    make([]int, len(req.TrackedRoles)),
		patternCounts: make([]int, len(req.Rules.Patterns)),
	}

	for i := lo; i < hi; i++ {
		if (i-lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rng.Shuffle(len(deck), func(a, b int) {
			deck[a], deck[b] = deck[b], deck[a]
		})
		hand := deck[:handSize]

		eval := ev.Evaluate(hand)
		scores[i] = eval.Score
		p.sum += eval.Score

		realized := rules.RealizedRoles(hand, req.Rules.Roles, req.TrackedRoles)
		for r, cards := range realized {
			p.roleTotals[r] += len(cards)
		}

		if i == lo || eval.Score > p.best.Score {
			p.best = snapshot(i, eval.Score, hand, req.TrackedRoles, realized)
		}
		if i == lo || eval.Score < p.worst.Score {
			p.worst = snapshot(i, eval.Score, hand, req.TrackedRoles, realized)
		}

		for j, matched := range eval.Matched {
			if matched {
				p.patternCounts[j]++
			}
		}
	}
	return p, nil
}

func snapshot(trial int, score float64, hand []string, tracked []rules.Role, realized [][]string) Hand {
	cards := make([]string, len(hand))
	copy(cards, hand)
	return Hand{
		Trial: trial,
		Score: score,
		Cards: cards,
		Roles: roleCards(tracked, realized),
	}
}

// streamSeed mixes the base seed with a chunk index so every chunk draws from
// its own stream (splitmix64 finalizer).
func streamSeed(base uint64, chunk int) uint64 {
	x := base + uint64(chunk) + 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
