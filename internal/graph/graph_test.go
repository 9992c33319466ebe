package graph

import (
	"testing"
	"time"

	"github.com/ringwatch/ringwatch/internal/domain"
)

func tx(id, from, to string, amount float64, t time.Time) domain.Transaction {
	return domain.Transaction{TransactionID: id, SenderID: from, ReceiverID: to, Amount: amount, Timestamp: t}
}

func TestBuildInsertionOrder(t *testing.T) {
	now := time.Now()
	table := domain.TransactionTable{Rows: []domain.Transaction{
		tx("t1", "A", "B", 10, now),
		tx("t2", "B", "C", 20, now.Add(time.Minute)),
		tx("t3", "C", "A", 30, now.Add(2*time.Minute)),
	}}

	g, err := Build(table)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3", g.NodeCount())
	}

	wantIDs := []string{"A", "B", "C"}
	for i, want := range wantIDs {
		if got := g.AccountID(i); got != want {
			t.Errorf("AccountID(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestBuildDuplicateTransactionIDFatal(t *testing.T) {
	now := time.Now()
	table := domain.TransactionTable{Rows: []domain.Transaction{
		tx("t1", "A", "B", 10, now),
		tx("t1", "B", "C", 20, now),
	}}

	_, err := Build(table)
	if err == nil {
		t.Fatal("expected error for duplicate transaction_id")
	}
	ae, ok := err.(*domain.AnalysisError)
	if !ok {
		t.Fatalf("expected *domain.AnalysisError, got %T", err)
	}
	if ae.Kind != domain.KindFatal {
		t.Errorf("Kind = %v, want %v", ae.Kind, domain.KindFatal)
	}
}

func TestParallelEdgesPreserved(t *testing.T) {
	now := time.Now()
	table := domain.TransactionTable{Rows: []domain.Transaction{
		tx("t1", "A", "B", 10, now),
		tx("t2", "A", "B", 20, now.Add(time.Minute)),
	}}

	g, err := Build(table)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a, _ := g.NodeIndex("A")
	if g.OutDegree(a) != 2 {
		t.Errorf("OutDegree(A) = %d, want 2 (parallel edges)", g.OutDegree(a))
	}

	succ := g.Successors(a)
	if len(succ) != 1 {
		t.Errorf("Successors(A) = %v, want single deduplicated entry", succ)
	}
}

func TestDegreeAndNeighbors(t *testing.T) {
	now := time.Now()
	table := domain.TransactionTable{Rows: []domain.Transaction{
		tx("t1", "A", "B", 10, now),
		tx("t2", "B", "C", 10, now),
	}}
	g, err := Build(table)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	b, _ := g.NodeIndex("B")
	if g.InDegree(b) != 1 || g.OutDegree(b) != 1 {
		t.Fatalf("B degrees = (%d,%d), want (1,1)", g.InDegree(b), g.OutDegree(b))
	}

	pred := g.Predecessors(b)
	a, _ := g.NodeIndex("A")
	if len(pred) != 1 || pred[0] != a {
		t.Errorf("Predecessors(B) = %v, want [%d]", pred, a)
	}
}
