// Package velocity provides the per-account temporal-proximity score: a
// binary 0/10 indicator of two incident transactions within a short
// window, computed directly over the in-memory graph.
package velocity

import (
	"sort"
	"time"

	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/graph"
)

// Analyzer scores accounts for temporal proximity of incident edges.
type Analyzer struct {
	window time.Duration
	score  int
}

// NewAnalyzer builds an Analyzer from detector configuration.
func NewAnalyzer(cfg domain.DetectorConfig) *Analyzer {
	return &Analyzer{window: cfg.VelocityWindow, score: cfg.VelocityScore}
}

// Score returns the configured score if two distinct incident edges
// (either direction) of accountID have timestamps less than window
// apart, otherwise 0. Unknown accounts and accounts with fewer than two
// incident edges score 0. The score is not additive across multiple
// close pairs: the first qualifying pair short-circuits the scan.
func (a *Analyzer) Score(g *graph.Graph, accountID string) int {
	n, ok := g.NodeIndex(accountID)
	if !ok {
		return 0
	}
	return a.ScoreNode(g, n)
}

// ScoreNode is Score by node index, avoiding a redundant lookup when the
// caller already holds one (the accumulator does, when it creates an
// account's record).
func (a *Analyzer) ScoreNode(g *graph.Graph, n int) int {
	out := g.OutEdges(n)
	in := g.InEdges(n)
	if len(out)+len(in) < 2 {
		return 0
	}

	timestamps := make([]time.Time, 0, len(out)+len(in))
	for _, e := range out {
		timestamps = append(timestamps, e.Timestamp)
	}
	for _, e := range in {
		timestamps = append(timestamps, e.Timestamp)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	for i := 1; i < len(timestamps); i++ {
		if timestamps[i].Sub(timestamps[i-1]) < a.window {
			return a.score
		}
	}
	return 0
}
