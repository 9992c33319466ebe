package detect

import (
	"fmt"
	"testing"
	"time"

	"github.com/ringwatch/ringwatch/internal/domain"
)

// Fan-out smurfing where every receiver forwards onward.
func TestSmurfDetectorFanOutAllReceiversForward(t *testing.T) {
	now := time.Now()
	var rows []domain.Transaction
	for i := 0; i < 10; i++ {
		r := fmt.Sprintf("R%d", i)
		rows = append(rows, domain.Transaction{
			TransactionID: fmt.Sprintf("fan%d", i),
			SenderID:      "H",
			ReceiverID:    r,
			Timestamp:     now.Add(time.Duration(i) * 5 * time.Minute),
		})
		rows = append(rows, domain.Transaction{
			TransactionID: fmt.Sprintf("onward%d", i),
			SenderID:      r,
			ReceiverID:    "SINK",
			Timestamp:     now,
		})
	}
	g := mustBuild(t, rows)

	emissions, err := NewSmurfDetector(domain.DefaultDetectorConfig()).Detect(g)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	found := false
	for _, e := range emissions {
		if e.AccountID == "H" && e.PatternTag == "fan_out_smurfing" {
			found = true
			if e.ScoreBump != 30 {
				t.Errorf("ScoreBump = %d, want 30", e.ScoreBump)
			}
		}
	}
	if !found {
		t.Error("expected H to be flagged for fan_out_smurfing")
	}
}

// Fan-out suppressed when one receiver is a pure sink.
func TestSmurfDetectorFanOutSuppressedByPureSink(t *testing.T) {
	now := time.Now()
	var rows []domain.Transaction
	for i := 0; i < 10; i++ {
		r := fmt.Sprintf("R%d", i)
		rows = append(rows, domain.Transaction{
			TransactionID: fmt.Sprintf("fan%d", i),
			SenderID:      "H",
			ReceiverID:    r,
			Timestamp:     now.Add(time.Duration(i) * 5 * time.Minute),
		})
		if i == 5 {
			continue // R5 is a pure sink: no onward edge
		}
		rows = append(rows, domain.Transaction{
			TransactionID: fmt.Sprintf("onward%d", i),
			SenderID:      r,
			ReceiverID:    "SINK",
			Timestamp:     now,
		})
	}
	g := mustBuild(t, rows)

	emissions, err := NewSmurfDetector(domain.DefaultDetectorConfig()).Detect(g)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	for _, e := range emissions {
		if e.AccountID == "H" {
			t.Errorf("H should not be flagged when a receiver is a pure sink, got %+v", e)
		}
	}
}

// Fan-in smurfing where X forwards to exactly one place.
func TestSmurfDetectorFanIn(t *testing.T) {
	now := time.Now()
	var rows []domain.Transaction
	for i := 0; i < 10; i++ {
		rows = append(rows, domain.Transaction{
			TransactionID: fmt.Sprintf("in%d", i),
			SenderID:      fmt.Sprintf("S%d", i),
			ReceiverID:    "X",
			Timestamp:     now.Add(time.Duration(i) * time.Hour),
		})
	}
	rows = append(rows, domain.Transaction{
		TransactionID: "out1",
		SenderID:      "X",
		ReceiverID:    "Y",
		Timestamp:     now,
	})
	g := mustBuild(t, rows)

	emissions, err := NewSmurfDetector(domain.DefaultDetectorConfig()).Detect(g)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	found := false
	for _, e := range emissions {
		if e.AccountID == "X" && e.PatternTag == "fan_in_smurfing" {
			found = true
		}
	}
	if !found {
		t.Error("expected X to be flagged for fan_in_smurfing")
	}
}

func TestSmurfDetectorFanInSuppressedByMultipleOutEdges(t *testing.T) {
	now := time.Now()
	var rows []domain.Transaction
	for i := 0; i < 10; i++ {
		rows = append(rows, domain.Transaction{
			TransactionID: fmt.Sprintf("in%d", i),
			SenderID:      fmt.Sprintf("S%d", i),
			ReceiverID:    "X",
			Timestamp:     now.Add(time.Duration(i) * time.Hour),
		})
	}
	rows = append(rows,
		domain.Transaction{TransactionID: "out1", SenderID: "X", ReceiverID: "Y", Timestamp: now},
		domain.Transaction{TransactionID: "out2", SenderID: "X", ReceiverID: "Z", Timestamp: now},
	)
	g := mustBuild(t, rows)

	emissions, err := NewSmurfDetector(domain.DefaultDetectorConfig()).Detect(g)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for _, e := range emissions {
		if e.AccountID == "X" && e.PatternTag == "fan_in_smurfing" {
			t.Error("X should not be flagged when it forwards to more than one place")
		}
	}
}

func TestSmurfDetectorBelowMinimumFanEdges(t *testing.T) {
	now := time.Now()
	var rows []domain.Transaction
	for i := 0; i < 5; i++ {
		rows = append(rows, domain.Transaction{
			TransactionID: fmt.Sprintf("fan%d", i),
			SenderID:      "H",
			ReceiverID:    fmt.Sprintf("R%d", i),
			Timestamp:     now,
		})
	}
	g := mustBuild(t, rows)

	emissions, err := NewSmurfDetector(domain.DefaultDetectorConfig()).Detect(g)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(emissions) != 0 {
		t.Errorf("expected no emissions below the fan-edge minimum, got %v", emissions)
	}
}
