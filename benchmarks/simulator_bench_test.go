// Package benchmarks measures hand scoring and simulation throughput.
//
// To run:
//
//	go test -bench=. -benchmem ./benchmarks/...
//
// To compare results across changes:
//
//	go install golang.org/x/perf/cmd/benchstat@latest
//	go test -bench=. -benchmem -count=5 ./benchmarks/... > old.txt
//	go test -bench=. -benchmem -count=5 ./benchmarks/... > new.txt
//	benchstat old.txt new.txt
package benchmarks

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/ramonehamilton/handsim/internal/evaluator"
	"github.com/ramonehamilton/handsim/internal/rules"
	"github.com/ramonehamilton/handsim/internal/session"
	"github.com/ramonehamilton/handsim/internal/simulator"
)

const benchRules = `
Ash Blossom & Joyous Spring|handtrap:1|1.5
Ice Ryzeal,Node Ryzeal|starter:1,extender:1|2
|starter:1,handtrap:2|1
`

// benchDeck builds a 40-card deck from built-in role cards plus blanks.
func benchDeck() []string {
	names := slices.Sorted(maps.Keys(rules.BuiltinRoles()))[:10]

	deck := make([]string, 0, 40)
	for _, name := range names {
		deck = append(deck, name, name, name)
	}
	for i := len(deck); i < 40; i++ {
		deck = append(deck, fmt.Sprintf("Blank %d", i))
	}
	return deck
}

func BenchmarkEvaluate(b *testing.B) {
	rs := session.Parse(benchRules).Ruleset()
	ev := evaluator.New(rs, rules.GoingSecond)
	hand := benchDeck()[:6]

	b.ReportAllocs()
	for b.Loop() {
		_ = ev.Evaluate(hand)
	}
}

func BenchmarkSimulate(b *testing.B) {
	rs := session.Parse(benchRules).Ruleset()
	deck := benchDeck()

	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			sim := simulator.New(simulator.Config{Workers: workers}, nil)
			req := simulator.Request{
				Deck:   deck,
				Trials: 100000,
				Turn:   rules.GoingFirst,
				Rules:  rs,
				Seed:   1,
			}

			b.ReportAllocs()
			for b.Loop() {
				if _, err := sim.Run(context.Background(), req); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(req.Trials*b.N)/b.Elapsed().Seconds(), "hands/s")
		})
	}
}
