package accumulate

import (
	"testing"

	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/graph"
	"github.com/ringwatch/ringwatch/internal/velocity"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build(domain.TransactionTable{Rows: []domain.Transaction{
		{TransactionID: "t1", SenderID: "A", ReceiverID: "B", Amount: 1},
		{TransactionID: "t2", SenderID: "B", ReceiverID: "C", Amount: 1},
	}})
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}
	return g
}

func TestFlagCreatesAccountOnFirstEmission(t *testing.T) {
	g := buildGraph(t)
	a := New(g, velocity.NewAnalyzer(domain.DefaultDetectorConfig()))

	a.Flag("A", "cycle_length_3", 40, "RING_01")

	recs := a.Records()
	if len(recs) != 1 {
		t.Fatalf("Records() = %d entries, want 1", len(recs))
	}
	r := recs[0]
	if r.RawPatternScore != 40 {
		t.Errorf("RawPatternScore = %d, want 40", r.RawPatternScore)
	}
	if r.RingID == nil || *r.RingID != "RING_01" {
		t.Errorf("RingID = %v, want RING_01", r.RingID)
	}
}

func TestFlagDeduplicatesPatternTag(t *testing.T) {
	g := buildGraph(t)
	a := New(g, velocity.NewAnalyzer(domain.DefaultDetectorConfig()))

	a.Flag("A", "cycle_length_4", 40, "RING_01")
	a.Flag("A", "cycle_length_4", 40, "RING_02") // second ring through same node/tag

	recs := a.Records()
	r := recs[0]
	if r.RawPatternScore != 40 {
		t.Errorf("RawPatternScore = %d, want 40 (dedup of repeated tag)", r.RawPatternScore)
	}
	if len(r.DetectedPatterns) != 1 {
		t.Errorf("DetectedPatterns = %v, want single entry", r.DetectedPatterns)
	}
	if *r.RingID != "RING_01" {
		t.Errorf("RingID = %v, want first-assigned RING_01", *r.RingID)
	}
}

func TestFlagAccumulatesDistinctPatterns(t *testing.T) {
	g := buildGraph(t)
	a := New(g, velocity.NewAnalyzer(domain.DefaultDetectorConfig()))

	a.Flag("A", "cycle_length_4", 40, "RING_01")
	a.Flag("A", "shell_pass_through", 20, "")

	r := a.Records()[0]
	if r.RawPatternScore != 60 {
		t.Errorf("RawPatternScore = %d, want 60", r.RawPatternScore)
	}
	if len(r.DetectedPatterns) != 2 {
		t.Errorf("DetectedPatterns = %v, want 2 entries", r.DetectedPatterns)
	}
}

func TestFlagPreservesFirstFlaggedOrder(t *testing.T) {
	g := buildGraph(t)
	a := New(g, velocity.NewAnalyzer(domain.DefaultDetectorConfig()))

	a.Flag("C", "shell_pass_through", 20, "")
	a.Flag("A", "cycle_length_3", 40, "RING_01")

	recs := a.Records()
	if recs[0].AccountID != "C" || recs[1].AccountID != "A" {
		t.Errorf("order = [%s, %s], want [C, A]", recs[0].AccountID, recs[1].AccountID)
	}
}

func TestFlagRingIDNeverOverwritten(t *testing.T) {
	g := buildGraph(t)
	a := New(g, velocity.NewAnalyzer(domain.DefaultDetectorConfig()))

	a.Flag("A", "cycle_length_3", 40, "RING_01")
	a.Flag("A", "fan_out_smurfing", 30, "RING_99")

	r := a.Records()[0]
	if *r.RingID != "RING_01" {
		t.Errorf("RingID = %v, want RING_01 (first assignment wins)", *r.RingID)
	}
}
