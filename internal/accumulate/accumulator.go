// Package accumulate merges detector emissions into a per-account record,
// deduplicating pattern tags and combining scores. It is the single point
// of mutation in the pipeline: the graph builder and detectors only read,
// the accumulator is the only component that writes account state.
package accumulate

import "github.com/ringwatch/ringwatch/internal/graph"

// VelocityScorer computes the velocity score for a node, evaluated once
// per account at creation time and never recomputed on re-flag.
type VelocityScorer interface {
	ScoreNode(g *graph.Graph, n int) int
}

// record is one account's accumulated state.
type record struct {
	accountID        string
	detectedPatterns []string
	patternSeen      map[string]struct{}
	rawPatternScore  int
	velocityScore    int
	ringID           *string
}

// Accumulator merges flags in first-emission order, preserving the
// order accounts were first flagged for iteration and report assembly.
type Accumulator struct {
	g        *graph.Graph
	velocity VelocityScorer

	order   []string
	records map[string]*record
}

// New creates an Accumulator bound to a graph and a velocity scorer.
func New(g *graph.Graph, velocity VelocityScorer) *Accumulator {
	return &Accumulator{g: g, velocity: velocity, records: make(map[string]*record)}
}

// Flag records one pattern emission for accountID. ringID may be empty,
// meaning "no ring to attach". Re-emission of a tag already present for
// the account is a no-op on raw_pattern_score (idempotent). A ring ID,
// once set, is never overwritten by a later flag.
func (a *Accumulator) Flag(accountID, patternTag string, scoreBump int, ringID string) {
	r, ok := a.records[accountID]
	if !ok {
		r = &record{
			accountID:   accountID,
			patternSeen: make(map[string]struct{}),
		}
		if n, found := a.g.NodeIndex(accountID); found {
			r.velocityScore = a.velocity.ScoreNode(a.g, n)
		}
		a.records[accountID] = r
		a.order = append(a.order, accountID)
	}

	if _, seen := r.patternSeen[patternTag]; !seen {
		r.patternSeen[patternTag] = struct{}{}
		r.detectedPatterns = append(r.detectedPatterns, patternTag)
		r.rawPatternScore += scoreBump
	}

	if ringID != "" && r.ringID == nil {
		id := ringID
		r.ringID = &id
	}
}

// AccountRecord is the read-only view of one accumulated account,
// exposed to the scorer.
type AccountRecord struct {
	AccountID        string
	DetectedPatterns []string
	RawPatternScore  int
	VelocityScore    int
	RingID           *string
}

// Records returns all accumulated accounts in first-flagged order.
func (a *Accumulator) Records() []AccountRecord {
	out := make([]AccountRecord, 0, len(a.order))
	for _, id := range a.order {
		r := a.records[id]
		out = append(out, AccountRecord{
			AccountID:        r.accountID,
			DetectedPatterns: append([]string(nil), r.detectedPatterns...),
			RawPatternScore:  r.rawPatternScore,
			VelocityScore:    r.velocityScore,
			RingID:           r.ringID,
		})
	}
	return out
}
