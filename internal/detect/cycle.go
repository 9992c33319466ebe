package detect

import (
	"fmt"
	"log/slog"

	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/graph"
)

// CycleDetector enumerates simple directed cycles of bounded length
// (Pattern A). It restricts the DFS rooted at each node to successors
// with index >= the root, the standard trick (Johnson's algorithm) for
// discovering each elementary cycle exactly once, via its minimum-index
// member. Depth is capped at CycleMaxLength instead of full
// blocking/unblocking bookkeeping, which the length bound makes
// unnecessary.
type CycleDetector struct {
	cfg domain.DetectorConfig
}

// NewCycleDetector builds a CycleDetector from detector configuration.
func NewCycleDetector(cfg domain.DetectorConfig) *CycleDetector {
	return &CycleDetector{cfg: cfg}
}

// Detect returns one CycleOutput entry per simple cycle found, in
// enumeration order. Enumeration runs on a deduplicated adjacency view
// (graph.Graph.Successors), since parallel transactions between the same
// pair do not create distinct cycles.
func (d *CycleDetector) Detect(g *graph.Graph) (CycleOutput, error) {
	out := CycleOutput{}
	counter := 1

	for _, root := range g.Nodes() {
		cycles, err := d.cyclesRootedAt(g, root)
		if err != nil {
			return out, domain.NewDetectorError("cycle", err)
		}
		for _, members := range cycles {
			ringID := fmt.Sprintf("RING_%02d", counter)
			counter++

			length := len(members)
			tag := fmt.Sprintf("cycle_length_%d", length)
			for _, n := range members {
				out.Emissions = append(out.Emissions, Emission{
					AccountID:  g.AccountID(n),
					PatternTag: tag,
					ScoreBump:  d.cfg.CycleScoreBump,
					RingID:     ringID,
				})
			}

			ids := make([]string, length)
			for i, n := range members {
				ids[i] = g.AccountID(n)
			}
			out.Rings = append(out.Rings, domain.FraudRing{
				RingID:         ringID,
				MemberAccounts: ids,
				PatternType:    "cycle",
				RiskScore:      d.cfg.RingRiskScore,
			})
		}
	}

	return out, nil
}

// cyclesRootedAt finds every simple cycle whose minimum-index member is
// root, in DFS/first-appearance enumeration order.
func (d *CycleDetector) cyclesRootedAt(g *graph.Graph, root int) (cycles [][]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle enumeration panic rooted at %d: %v", root, r)
			slog.Error("cycle detector recovered from panic", "root", root, "panic", r)
		}
	}()

	path := []int{root}
	inPath := map[int]bool{root: true}

	var walk func(current int)
	walk = func(current int) {
		for _, s := range g.Successors(current) {
			switch {
			case s == root:
				if len(path) >= d.cfg.CycleMinLength && len(path) <= d.cfg.CycleMaxLength {
					member := append([]int(nil), path...)
					cycles = append(cycles, member)
				}
			case s < root, inPath[s]:
				// s < root would have been (or will be) its own cycle's
				// minimum member; inPath[s] would make the path non-simple.
				continue
			case len(path) >= d.cfg.CycleMaxLength:
				continue
			default:
				path = append(path, s)
				inPath[s] = true
				walk(s)
				inPath[s] = false
				path = path[:len(path)-1]
			}
		}
	}
	walk(root)

	return cycles, nil
}
