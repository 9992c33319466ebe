package velocity

import (
	"testing"
	"time"

	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/graph"
)

func buildGraph(t *testing.T, rows []domain.Transaction) *graph.Graph {
	t.Helper()
	g, err := graph.Build(domain.TransactionTable{Rows: rows})
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}
	return g
}

func TestScoreUnknownAccount(t *testing.T) {
	g := buildGraph(t, nil)
	a := NewAnalyzer(domain.DefaultDetectorConfig())
	if got := a.Score(g, "ghost"); got != 0 {
		t.Errorf("Score(ghost) = %d, want 0", got)
	}
}

func TestScoreSingleEdge(t *testing.T) {
	now := time.Now()
	g := buildGraph(t, []domain.Transaction{
		{TransactionID: "t1", SenderID: "A", ReceiverID: "B", Amount: 1, Timestamp: now},
	})
	a := NewAnalyzer(domain.DefaultDetectorConfig())
	if got := a.Score(g, "A"); got != 0 {
		t.Errorf("Score(A) with one incident edge = %d, want 0", got)
	}
}

func TestScoreCloseEdgesWithinWindow(t *testing.T) {
	now := time.Now()
	g := buildGraph(t, []domain.Transaction{
		{TransactionID: "t1", SenderID: "A", ReceiverID: "B", Amount: 1, Timestamp: now},
		{TransactionID: "t2", SenderID: "C", ReceiverID: "A", Amount: 1, Timestamp: now.Add(30 * time.Minute)},
	})
	a := NewAnalyzer(domain.DefaultDetectorConfig())
	if got := a.Score(g, "A"); got != 10 {
		t.Errorf("Score(A) = %d, want 10", got)
	}
}

func TestScoreFarEdgesOutsideWindow(t *testing.T) {
	now := time.Now()
	g := buildGraph(t, []domain.Transaction{
		{TransactionID: "t1", SenderID: "A", ReceiverID: "B", Amount: 1, Timestamp: now},
		{TransactionID: "t2", SenderID: "C", ReceiverID: "A", Amount: 1, Timestamp: now.Add(2 * time.Hour)},
	})
	a := NewAnalyzer(domain.DefaultDetectorConfig())
	if got := a.Score(g, "A"); got != 0 {
		t.Errorf("Score(A) = %d, want 0", got)
	}
}

func TestScoreNotAdditive(t *testing.T) {
	now := time.Now()
	// Three edges, every adjacent pair within the window: still 10, not 30.
	g := buildGraph(t, []domain.Transaction{
		{TransactionID: "t1", SenderID: "A", ReceiverID: "B", Amount: 1, Timestamp: now},
		{TransactionID: "t2", SenderID: "C", ReceiverID: "A", Amount: 1, Timestamp: now.Add(10 * time.Minute)},
		{TransactionID: "t3", SenderID: "A", ReceiverID: "D", Amount: 1, Timestamp: now.Add(20 * time.Minute)},
	})
	a := NewAnalyzer(domain.DefaultDetectorConfig())
	if got := a.Score(g, "A"); got != 10 {
		t.Errorf("Score(A) = %d, want 10", got)
	}
}
