package detect

import (
	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/graph"
)

// ShellDetector finds shell pass-throughs (Pattern C): a low-degree
// intermediate node forwarding flow along a directed walk of at least
// three edges.
type ShellDetector struct {
	cfg domain.DetectorConfig
}

// NewShellDetector builds a ShellDetector from detector configuration.
func NewShellDetector(cfg domain.DetectorConfig) *ShellDetector {
	return &ShellDetector{cfg: cfg}
}

// Detect scans every node, in insertion order, for the shell predicate.
func (d *ShellDetector) Detect(g *graph.Graph) ([]Emission, error) {
	var emissions []Emission
	for _, n := range g.Nodes() {
		in, out := g.InDegree(n), g.OutDegree(n)
		total := in + out
		if total != 2 && total != 3 {
			continue
		}
		if in < 1 || out < 1 {
			continue
		}
		if d.qualifies(g, n) {
			emissions = append(emissions, Emission{
				AccountID:  g.AccountID(n),
				PatternTag: "shell_pass_through",
				ScoreBump:  d.cfg.ShellScoreBump,
			})
		}
	}
	return emissions, nil
}

// qualifies reports whether n sits on a directed walk of length >= 3
// edges: some predecessor p extends the walk backward (p itself has an
// in-edge) or some successor s extends it forward (s itself has an
// out-edge). This covers walks, not necessarily simple paths, matching
// the behavior of the source this was distilled from.
func (d *ShellDetector) qualifies(g *graph.Graph, n int) bool {
	for _, p := range g.Predecessors(n) {
		if g.InDegree(p) > 0 {
			return true
		}
	}
	for _, s := range g.Successors(n) {
		if g.OutDegree(s) > 0 {
			return true
		}
	}
	return false
}
