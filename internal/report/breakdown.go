package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"goldbook/internal/classify"
	"goldbook/internal/domain"
)

type breakdownKey struct {
	superCategory string
	subCategory   string
	costType      domain.CostType
}

// FixedCostBreakdown lists fixed spending per sub-category: FIXED-flagged
// ledger debits amortized to the elapsed portion of the year, concatenated
// with the statically configured annual costs scaled the same way. Sorted by
// amount descending. elapsedMonths below 1 is treated as a full year.
func FixedCostBreakdown(
	ledger []domain.LedgerEntry,
	fixed []domain.FixedCost,
	elapsedMonths int,
) []domain.CostBreakdownRow {
	if elapsedMonths < 1 || elapsedMonths > 12 {
		elapsedMonths = 12
	}
	scale := decimal.NewFromInt(int64(elapsedMonths)).Div(twelve)

	groups := map[breakdownKey]decimal.Decimal{}
	order := []breakdownKey{}
	for _, entry := range ledger {
		if entry.CostType != domain.CostTypeFixed || !entry.Debit.IsPositive() {
			continue
		}
		if classify.ExcludedFromTotals(entry.SuperCategory, entry.SubCategory) {
			continue
		}
		key := breakdownKey{entry.SuperCategory, entry.SubCategory, entry.CostType}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = groups[key].Add(entry.Debit)
	}

	rows := make([]domain.CostBreakdownRow, 0, len(order)+len(fixed))
	for _, key := range order {
		rows = append(rows, domain.CostBreakdownRow{
			SuperCategory: key.superCategory,
			SubCategory:   key.subCategory,
			CostType:      key.costType,
			Amount:        groups[key].Mul(scale),
		})
	}
	for _, cost := range fixed {
		rows = append(rows, domain.CostBreakdownRow{
			SuperCategory: cost.SuperCategory,
			SubCategory:   cost.SubCategory,
			CostType:      cost.CostType,
			Amount:        cost.Annual.Mul(scale),
		})
	}

	sortByAmountDesc(rows)
	return rows
}

// VariableCostBreakdown lists VARIABLE-flagged ledger debits per
// sub-category, sorted by amount descending. Variable spending is already
// period-dated, so no amortization applies.
func VariableCostBreakdown(ledger []domain.LedgerEntry) []domain.CostBreakdownRow {
	groups := map[breakdownKey]decimal.Decimal{}
	order := []breakdownKey{}
	for _, entry := range ledger {
		if entry.CostType != domain.CostTypeVariable || !entry.Debit.IsPositive() {
			continue
		}
		if classify.ExcludedFromTotals(entry.SuperCategory, entry.SubCategory) {
			continue
		}
		key := breakdownKey{entry.SuperCategory, entry.SubCategory, entry.CostType}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = groups[key].Add(entry.Debit)
	}

	rows := make([]domain.CostBreakdownRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, domain.CostBreakdownRow{
			SuperCategory: key.superCategory,
			SubCategory:   key.subCategory,
			CostType:      key.costType,
			Amount:        groups[key],
		})
	}

	sortByAmountDesc(rows)
	return rows
}

func sortByAmountDesc(rows []domain.CostBreakdownRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.GreaterThan(rows[j].Amount)
	})
}
