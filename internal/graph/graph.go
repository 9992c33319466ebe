// Package graph builds and exposes the immutable directed multigraph the
// detectors run over. Nodes are interned as small integer indices with a
// side mapping back to account IDs, giving O(1) degree lookups without
// repeated string hashing.
package graph

import (
	"time"

	"github.com/ringwatch/ringwatch/internal/domain"
)

// Edge is one directed transaction edge.
type Edge struct {
	TransactionID string
	From          int
	To            int
	Amount        float64
	Timestamp     time.Time
}

// Graph is the immutable directed multigraph built from a transaction
// table. Parallel edges between the same ordered pair are preserved.
// Node and edge slices are in first-appearance/table-row order, which
// every detector relies on for deterministic output.
type Graph struct {
	ids   []string
	index map[string]int

	edges []Edge
	out   [][]int // out[n] = indices into edges, in insertion order
	in    [][]int // in[n]  = indices into edges, in insertion order
}

// Build constructs a Graph from a transaction table. It fails with a Fatal
// domain.AnalysisError if any transaction_id repeats. A row with a zero
// Timestamp (unparseable upstream) is kept as-is: the minimum
// representable instant, per the Graph Builder's documented tie-break.
func Build(table domain.TransactionTable) (*Graph, error) {
	g := &Graph{index: make(map[string]int)}
	seenTx := make(map[string]struct{}, len(table.Rows))

	for _, row := range table.Rows {
		if _, dup := seenTx[row.TransactionID]; dup {
			return nil, domain.NewFatal("duplicate transaction_id: "+row.TransactionID, nil)
		}
		seenTx[row.TransactionID] = struct{}{}

		from := g.intern(row.SenderID)
		to := g.intern(row.ReceiverID)

		edgeIdx := len(g.edges)
		g.edges = append(g.edges, Edge{
			TransactionID: row.TransactionID,
			From:          from,
			To:            to,
			Amount:        row.Amount,
			Timestamp:     row.Timestamp,
		})
		g.out[from] = append(g.out[from], edgeIdx)
		g.in[to] = append(g.in[to], edgeIdx)
	}

	return g, nil
}

func (g *Graph) intern(id string) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.ids)
	g.index[id] = idx
	g.ids = append(g.ids, id)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return idx
}

// NodeCount returns |V|.
func (g *Graph) NodeCount() int {
	return len(g.ids)
}

// Nodes returns node indices in first-appearance order.
func (g *Graph) Nodes() []int {
	nodes := make([]int, len(g.ids))
	for i := range nodes {
		nodes[i] = i
	}
	return nodes
}

// AccountID returns the string account ID for a node index.
func (g *Graph) AccountID(n int) string {
	return g.ids[n]
}

// NodeIndex returns the node index for an account ID and whether it exists.
func (g *Graph) NodeIndex(accountID string) (int, bool) {
	idx, ok := g.index[accountID]
	return idx, ok
}

// OutDegree returns the number of out-edges of node n.
func (g *Graph) OutDegree(n int) int {
	return len(g.out[n])
}

// InDegree returns the number of in-edges of node n.
func (g *Graph) InDegree(n int) int {
	return len(g.in[n])
}

// OutEdges returns the out-edges of node n, in insertion order.
func (g *Graph) OutEdges(n int) []Edge {
	edges := make([]Edge, len(g.out[n]))
	for i, idx := range g.out[n] {
		edges[i] = g.edges[idx]
	}
	return edges
}

// InEdges returns the in-edges of node n, in insertion order.
func (g *Graph) InEdges(n int) []Edge {
	edges := make([]Edge, len(g.in[n]))
	for i, idx := range g.in[n] {
		edges[i] = g.edges[idx]
	}
	return edges
}

// Successors returns the distinct out-neighbors of n, deduplicated, in
// first-appearance order. Used by the cycle detector, which operates on
// a simple adjacency view even though the underlying graph is a
// multigraph: parallel transactions between the same pair collapse to
// one traversable edge.
func (g *Graph) Successors(n int) []int {
	seen := make(map[int]struct{}, len(g.out[n]))
	var succ []int
	for _, idx := range g.out[n] {
		to := g.edges[idx].To
		if _, ok := seen[to]; ok {
			continue
		}
		seen[to] = struct{}{}
		succ = append(succ, to)
	}
	return succ
}

// Predecessors returns the distinct in-neighbors of n, deduplicated.
func (g *Graph) Predecessors(n int) []int {
	seen := make(map[int]struct{}, len(g.in[n]))
	var pred []int
	for _, idx := range g.in[n] {
		from := g.edges[idx].From
		if _, ok := seen[from]; ok {
			continue
		}
		seen[from] = struct{}{}
		pred = append(pred, from)
	}
	return pred
}
