package store

import (
	"sync"

	"github.com/google/uuid"

	"goldbook/internal/domain"
	"goldbook/internal/pipeline"
)

// Store holds the session's canonical tables: the running sales table built
// by merging ingested batches, the categorized ledger, and the static fixed
// costs. All methods are safe for concurrent use; getters return copies so
// callers can never mutate the canonical state.
type Store struct {
	mu     sync.RWMutex
	sales  []domain.SalesRecord
	ledger []domain.LedgerEntry
	fixed  []domain.FixedCost
}

func New() *Store {
	return &Store{}
}

// MergeSales appends a normalized batch to the running sales table and
// returns the batch id assigned to the ingestion.
func (s *Store) MergeSales(batch []domain.SalesRecord) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = pipeline.MergeSales(s.sales, batch)
	return uuid.NewString()
}

func (s *Store) Sales() []domain.SalesRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SalesRecord, len(s.sales))
	copy(out, s.sales)
	return out
}

// ReplaceLedger swaps in a freshly normalized ledger table.
func (s *Store) ReplaceLedger(ledger []domain.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = make([]domain.LedgerEntry, len(ledger))
	copy(s.ledger, ledger)
}

func (s *Store) Ledger() []domain.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LedgerEntry, len(s.ledger))
	copy(out, s.ledger)
	return out
}

func (s *Store) SetFixedCosts(fixed []domain.FixedCost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixed = make([]domain.FixedCost, len(fixed))
	copy(s.fixed, fixed)
}

func (s *Store) FixedCosts() []domain.FixedCost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FixedCost, len(s.fixed))
	copy(out, s.fixed)
	return out
}
