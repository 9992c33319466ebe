// Package domain defines the core data types shared across ringwatch:
// transactions, the report shape, configuration, and the Cache/EventBus
// collaborator interfaces. It has no dependency on any other internal
// package.
package domain

import "time"

// Transaction is one row of the input transaction table: a single
// directed transfer from sender to receiver.
type Transaction struct {
	TransactionID string    `json:"transaction_id"`
	SenderID      string    `json:"sender_id"`
	ReceiverID    string    `json:"receiver_id"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// TransactionTable is the read-only columnar view the engine consumes.
// Row order is preserved; it determines node- and edge-insertion order
// throughout the pipeline, which downstream determinism depends on.
type TransactionTable struct {
	Rows []Transaction
}

// Len returns the number of rows in the table.
func (t TransactionTable) Len() int {
	return len(t.Rows)
}
