// Package report renders simulation results as text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ramonehamilton/handsim/internal/simulator"
)

// WriteText writes a human-readable summary of r to w.
func WriteText(w io.Writer, r *simulator.Result) error {
	var b strings.Builder

	b.WriteString("Simulation Results\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "Trials:        %s (going %s, %d-card hands, %d-card deck, seed %d)\n",
		humanize.Comma(int64(r.Trials)), r.Turn, r.HandSize, r.DeckSize, r.Seed)
	fmt.Fprintf(&b, "Mean Score:    %.3f\n", r.Mean)
	fmt.Fprintf(&b, "Median Score:  %.3f\n", r.Median)
	fmt.Fprintf(&b, "Variance:      %.3f\n", r.Variance)
	fmt.Fprintf(&b, "Std Deviation: %.3f\n", r.StdDev)
	fmt.Fprintf(&b, "5th / 95th:    %.3f / %.3f\n", r.P5, r.P95)
	b.WriteString("\n")

	writeHand(&b, "Best Hand", r.Best)
	writeHand(&b, "Worst Hand", r.Worst)

	b.WriteString("Average Unique Roles Per Hand\n")
	for i, ra := range r.RoleAverages {
		fmt.Fprintf(&b, "%s %s: %.2f\n", branch(i, len(r.RoleAverages)), ra.Role, ra.Average)
	}
	b.WriteString("\n")

	b.WriteString("Hand Patterns\n")
	if len(r.Patterns) == 0 {
		b.WriteString("└─ (none)\n")
	}
	for i, p := range r.Patterns {
		fmt.Fprintf(&b, "%s %s, value %g: %s hands (%.2f%%)\n",
			branch(i, len(r.Patterns)), p.Pattern, p.Pattern.Value, humanize.Comma(int64(p.Count)), p.Rate)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeHand(b *strings.Builder, title string, h simulator.Hand) {
	fmt.Fprintf(b, "%s (score %.3f, trial %s)\n", title, h.Score, humanize.Comma(int64(h.Trial+1)))
	fmt.Fprintf(b, "%s Cards: %s\n", branch(0, len(h.Roles)+1), strings.Join(h.Cards, ", "))
	for i, rc := range h.Roles {
		cards := "(none)"
		if len(rc.Cards) > 0 {
			cards = strings.Join(rc.Cards, ", ")
		}
		fmt.Fprintf(b, "%s %s: %s\n", branch(i+1, len(h.Roles)+1), rc.Role, cards)
	}
	b.WriteString("\n")
}

func branch(i, n int) string {
	if i == n-1 {
		return "└─"
	}
	return "├─"
}
