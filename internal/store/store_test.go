package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldbook/internal/domain"
)

func TestMergeSalesAccumulates(t *testing.T) {
	s := New()

	id1 := s.MergeSales([]domain.SalesRecord{{Invoice: "S1"}})
	id2 := s.MergeSales([]domain.SalesRecord{{Invoice: "S2"}, {Invoice: "S3"}})

	require.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)

	sales := s.Sales()
	require.Len(t, sales, 3)
	assert.Equal(t, "S1", sales[0].Invoice)
	assert.Equal(t, "S3", sales[2].Invoice)
}

func TestGettersReturnCopies(t *testing.T) {
	s := New()
	s.MergeSales([]domain.SalesRecord{{Invoice: "S1"}})
	s.ReplaceLedger([]domain.LedgerEntry{{Category: "DEWA"}})

	s.Sales()[0].Invoice = "mutated"
	s.Ledger()[0].Category = "mutated"

	assert.Equal(t, "S1", s.Sales()[0].Invoice)
	assert.Equal(t, "DEWA", s.Ledger()[0].Category)
}

func TestReplaceLedgerSwapsTable(t *testing.T) {
	s := New()
	s.ReplaceLedger([]domain.LedgerEntry{{Category: "A"}, {Category: "B"}})
	s.ReplaceLedger([]domain.LedgerEntry{{Category: "C"}})

	ledger := s.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, "C", ledger[0].Category)
}

func TestFixedCosts(t *testing.T) {
	s := New()
	s.SetFixedCosts([]domain.FixedCost{{SubCategory: "Rent"}})

	fixed := s.FixedCosts()
	require.Len(t, fixed, 1)
	fixed[0].SubCategory = "mutated"
	assert.Equal(t, "Rent", s.FixedCosts()[0].SubCategory)
}
