package detect

import (
	"sort"
	"time"

	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/graph"
)

// SmurfDetector finds temporal smurfing (Pattern B): a burst of at least
// SmurfMinFanEdges transactions inside a sliding window, fanning out from
// or into a single account.
type SmurfDetector struct {
	cfg domain.DetectorConfig
}

// NewSmurfDetector builds a SmurfDetector from detector configuration.
func NewSmurfDetector(cfg domain.DetectorConfig) *SmurfDetector {
	return &SmurfDetector{cfg: cfg}
}

// Detect scans every node, in insertion order, for fan-out then fan-in
// smurfing. Both checks can independently fire for the same node.
func (d *SmurfDetector) Detect(g *graph.Graph) ([]Emission, error) {
	var emissions []Emission
	for _, n := range g.Nodes() {
		if d.fanOut(g, n) {
			emissions = append(emissions, Emission{
				AccountID:  g.AccountID(n),
				PatternTag: "fan_out_smurfing",
				ScoreBump:  d.cfg.SmurfScoreBump,
			})
		}
		if d.fanIn(g, n) {
			emissions = append(emissions, Emission{
				AccountID:  g.AccountID(n),
				PatternTag: "fan_in_smurfing",
				ScoreBump:  d.cfg.SmurfScoreBump,
			})
		}
	}
	return emissions, nil
}

func (d *SmurfDetector) fanOut(g *graph.Graph, n int) bool {
	edges := g.OutEdges(n)
	if len(edges) < d.cfg.SmurfMinFanEdges {
		return false
	}
	if !d.hasDenseWindow(edges) {
		return false
	}
	// Every out-neighbor, multiplicity retained, must itself forward
	// somewhere; a single pure-sink receiver suppresses the flag.
	for _, e := range edges {
		if g.OutDegree(e.To) == 0 {
			return false
		}
	}
	return true
}

func (d *SmurfDetector) fanIn(g *graph.Graph, n int) bool {
	edges := g.InEdges(n)
	if len(edges) < d.cfg.SmurfMinFanEdges {
		return false
	}
	if !d.hasDenseWindow(edges) {
		return false
	}
	return g.OutDegree(n) == 1
}

// hasDenseWindow reports whether any run of SmurfMinFanEdges consecutive
// (by time) edges spans at most SmurfWindow.
func (d *SmurfDetector) hasDenseWindow(edges []graph.Edge) bool {
	timestamps := make([]time.Time, len(edges))
	for i, e := range edges {
		timestamps[i] = e.Timestamp
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	span := d.cfg.SmurfMinFanEdges
	for i := 0; i+span-1 < len(timestamps); i++ {
		if timestamps[i+span-1].Sub(timestamps[i]) <= d.cfg.SmurfWindow {
			return true
		}
	}
	return false
}
