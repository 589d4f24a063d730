package report

import (
	"sort"

	"goldbook/internal/domain"
)

// SalesFilter narrows which canonical sales rows feed an aggregate.
type SalesFilter struct {
	// IncludeQuarterly keeps quarterly-sourced rows in the aggregate.
	IncludeQuarterly bool
}

func (f SalesFilter) keep(rec domain.SalesRecord) bool {
	return f.IncludeQuarterly || !rec.Quarterly
}

// MonthlySales sums gross weight and making value per calendar month,
// sorted by month.
func MonthlySales(sales []domain.SalesRecord, filter SalesFilter) []domain.SalesMonthRow {
	weights := map[string]float64{}
	values := map[string]float64{}
	for _, rec := range sales {
		if !filter.keep(rec) {
			continue
		}
		weights[rec.Month] += rec.GrossWeight
		values[rec.Month] += rec.MakingValue
	}

	months := make([]string, 0, len(weights))
	for month := range weights {
		months = append(months, month)
	}
	sort.Strings(months)

	rows := make([]domain.SalesMonthRow, 0, len(months))
	for _, month := range months {
		rows = append(rows, domain.SalesMonthRow{
			Month:       month,
			GrossWeight: weights[month],
			MakingValue: values[month],
		})
	}
	return rows
}

// CategoryRollup aggregates sales by purity and item category: gross-weight
// sum, mean making rate, making-value sum, sorted by making value descending.
func CategoryRollup(sales []domain.SalesRecord, filter SalesFilter) []domain.SalesCategoryRow {
	type key struct {
		purity string
		item   string
	}
	type acc struct {
		grossWeight float64
		makingValue float64
		rateSum     float64
		count       int
	}

	groups := map[key]*acc{}
	order := []key{}
	for _, rec := range sales {
		if !filter.keep(rec) {
			continue
		}
		k := key{rec.PurityCategory, rec.ItemCategory}
		group, ok := groups[k]
		if !ok {
			group = &acc{}
			groups[k] = group
			order = append(order, k)
		}
		group.grossWeight += rec.GrossWeight
		group.makingValue += rec.MakingValue
		group.rateSum += rec.MakingRate
		group.count++
	}

	rows := make([]domain.SalesCategoryRow, 0, len(order))
	for _, k := range order {
		group := groups[k]
		rows = append(rows, domain.SalesCategoryRow{
			PurityCategory: k.purity,
			ItemCategory:   k.item,
			GrossWeight:    group.grossWeight,
			AvgMakingRate:  group.rateSum / float64(group.count),
			MakingValue:    group.makingValue,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MakingValue > rows[j].MakingValue
	})
	return rows
}
