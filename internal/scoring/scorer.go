// Package scoring applies the final scoring formula and assembles the
// report: aggregate per-account flags, apply the multi-pattern
// multiplier and score cap, and build the summary.
package scoring

import (
	"math"
	"time"

	"github.com/ringwatch/ringwatch/internal/accumulate"
	"github.com/ringwatch/ringwatch/internal/domain"
)

// Scorer turns accumulated account records and discovered rings into the
// final Report.
type Scorer struct {
	cfg domain.DetectorConfig
}

// NewScorer builds a Scorer from detector configuration.
func NewScorer(cfg domain.DetectorConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Build computes suspicion_score for every accumulated account and
// assembles the Report. records must already be in first-flagged order;
// rings must already be in enumeration order. elapsed is the wall-clock
// duration from the start of detection to the end of scoring.
func (s *Scorer) Build(records []accumulate.AccountRecord, rings []domain.FraudRing, totalAccounts int, elapsed time.Duration) domain.Report {
	accounts := make([]domain.SuspiciousAccount, 0, len(records))
	for _, r := range records {
		accounts = append(accounts, domain.SuspiciousAccount{
			AccountID:        r.AccountID,
			SuspicionScore:   s.score(r),
			DetectedPatterns: r.DetectedPatterns,
			RingID:           r.RingID,
		})
	}

	if rings == nil {
		rings = []domain.FraudRing{}
	}

	return domain.Report{
		SuspiciousAccounts: accounts,
		FraudRings:         rings,
		Summary: domain.Summary{
			TotalAccountsAnalyzed:     totalAccounts,
			SuspiciousAccountsFlagged: len(accounts),
			FraudRingsDetected:        len(rings),
			ProcessingTimeSeconds:     round4(elapsed.Seconds()),
		},
	}
}

// score applies: total = raw + velocity; x1.2 if more than one distinct
// pattern; capped at ScoreCap.
func (s *Scorer) score(r accumulate.AccountRecord) float64 {
	total := float64(r.RawPatternScore + r.VelocityScore)
	if len(r.DetectedPatterns) > 1 {
		total *= s.cfg.MultiPatternMultiplier
	}
	return math.Min(total, s.cfg.ScoreCap)
}

func round4(seconds float64) float64 {
	return math.Round(seconds*10000) / 10000
}
