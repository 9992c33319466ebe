// Package detect implements the three structural/temporal pattern
// detectors: bounded cycles, temporal smurfing, and shell pass-throughs.
// Each detector is a pure read over a *graph.Graph and returns a list of
// Emissions for the Flag Accumulator to merge; detectors never mutate
// shared state or each other's output.
package detect

import "github.com/ringwatch/ringwatch/internal/domain"

// Emission is one detector's vote that an account exhibits a pattern.
// RingID is empty when the pattern carries no ring (smurfing, shell).
type Emission struct {
	AccountID  string
	PatternTag string
	ScoreBump  int
	RingID     string
}

// CycleOutput bundles the flag emissions for cycle members with the
// FraudRing records to attach to the final report.
type CycleOutput struct {
	Emissions []Emission
	Rings     []domain.FraudRing
}
