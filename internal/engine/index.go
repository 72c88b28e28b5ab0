package engine

import (
	"github.com/suriya1233/smart-reconciliation-system/internal/models"
)

// Indexes are the per-run lookup maps over the system-of-record set. They
// are rebuilt for every reconciliation run and never shared across runs.
type Indexes struct {
	ByTransactionID   map[string]*models.Transaction
	ByReferenceNumber map[string]*models.Transaction
}

// BuildIndexes builds both lookup maps in one O(n) pass. If the system set
// carries duplicate transaction IDs the last record wins; that is accepted
// policy, not an error. Records with an empty reference number are excluded
// from the reference index, and an empty transaction ID is never indexed so
// records missing one cannot collide on the empty key.
func BuildIndexes(system []models.Transaction) Indexes {
	idx := Indexes{
		ByTransactionID:   make(map[string]*models.Transaction, len(system)),
		ByReferenceNumber: make(map[string]*models.Transaction),
	}
	for i := range system {
		rec := &system[i]
		if rec.TransactionID != "" {
			idx.ByTransactionID[rec.TransactionID] = rec
		}
		if rec.ReferenceNumber != "" {
			idx.ByReferenceNumber[rec.ReferenceNumber] = rec
		}
	}
	return idx
}
