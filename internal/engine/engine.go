// Package engine orchestrates one complete analysis: build the graph,
// run the three detectors in their load-bearing order, accumulate their
// emissions, and score the result. One Engine.Analyze call is
// single-threaded and cooperative; no goroutines run inside it.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/ringwatch/ringwatch/internal/accumulate"
	"github.com/ringwatch/ringwatch/internal/detect"
	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/graph"
	"github.com/ringwatch/ringwatch/internal/scoring"
	"github.com/ringwatch/ringwatch/internal/velocity"
)

// Engine runs the fraud-detection pipeline over a transaction table.
type Engine struct {
	cfg domain.DetectorConfig
}

// New builds an Engine bound to a fixed detector configuration. Use
// domain.DefaultDetectorConfig in production paths so report values match
// the documented contract exactly.
func New(cfg domain.DetectorConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Analyze runs one full, deterministic pass over table and returns the
// completed report. Detectors run strictly in order: Cycle (A), Smurfing
// (B), Shell (C); this order is load-bearing for pattern-list insertion
// order and ring-id precedence. A DetectorError from any one detector is
// logged and the remaining detectors still run; only a Fatal error (e.g.
// a duplicate transaction_id surfaced by the Graph Builder) aborts the
// whole analysis.
func (e *Engine) Analyze(ctx context.Context, table domain.TransactionTable) (*domain.Report, error) {
	g, err := graph.Build(table)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	velocityAnalyzer := velocity.NewAnalyzer(e.cfg)
	acc := accumulate.New(g, velocityAnalyzer)

	cycleOut, err := detect.NewCycleDetector(e.cfg).Detect(g)
	if err != nil {
		logDetectorError(ctx, err)
	}
	for _, em := range cycleOut.Emissions {
		acc.Flag(em.AccountID, em.PatternTag, em.ScoreBump, em.RingID)
	}

	smurfEmissions, err := detect.NewSmurfDetector(e.cfg).Detect(g)
	if err != nil {
		logDetectorError(ctx, err)
	}
	for _, em := range smurfEmissions {
		acc.Flag(em.AccountID, em.PatternTag, em.ScoreBump, em.RingID)
	}

	shellEmissions, err := detect.NewShellDetector(e.cfg).Detect(g)
	if err != nil {
		logDetectorError(ctx, err)
	}
	for _, em := range shellEmissions {
		acc.Flag(em.AccountID, em.PatternTag, em.ScoreBump, em.RingID)
	}

	elapsed := time.Since(start)
	report := scoring.NewScorer(e.cfg).Build(acc.Records(), cycleOut.Rings, g.NodeCount(), elapsed)
	return &report, nil
}

func logDetectorError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "detector failed, continuing with remaining detectors", "error", err)
}
