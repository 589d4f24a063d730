package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"goldbook/internal/classify"
	"goldbook/internal/domain"
)

// SubCategoryQTRMaking is the income sub-category whose ledger credits feed
// the quarterly-making-charges column of the monthly summary.
const SubCategoryQTRMaking = "QTR Making Charges"

const monthKeyLayout = "2006-01"

var twelve = decimal.NewFromInt(12)

// MonthlySummary builds the month-by-month financial summary: making charges
// and gold gains from sales, quarterly making charges from ledger credits,
// expenses from ledger debits, and a fixed-cost figure that is constant
// across every month of the report. Components are outer-joined on month
// with absent values filled as zero, so a month present in any one input
// produces a complete row.
//
// Row invariants: TotalIncome = MakingCharges + QTRMakingCharges,
// TotalCost = -(Expenses + FixedCosts), NetProfit = TotalIncome + TotalCost,
// Position is "Profit" only when NetProfit is strictly positive.
func MonthlySummary(
	sales []domain.SalesRecord,
	ledger []domain.LedgerEntry,
	fixed []domain.FixedCost,
	goldRate decimal.Decimal,
) []domain.MonthlySummaryRow {
	making := map[string]decimal.Decimal{}
	gainWeight := map[string]float64{}
	for _, rec := range sales {
		making[rec.Month] = making[rec.Month].Add(decimal.NewFromFloat(rec.MakingValue))
		gainWeight[rec.Month] += rec.GoldGain
	}

	qtrMaking := map[string]decimal.Decimal{}
	expenses := map[string]decimal.Decimal{}
	for _, entry := range ledger {
		month := entry.Date.Format(monthKeyLayout)
		if entry.SubCategory == SubCategoryQTRMaking {
			qtrMaking[month] = qtrMaking[month].Add(entry.Credit)
		}
		if entry.Debit.IsPositive() && !classify.ExcludedFromTotals(entry.SuperCategory, entry.SubCategory) {
			expenses[month] = expenses[month].Add(entry.Debit)
		}
	}

	fixedMonthly := monthlyFixedCosts(ledger, fixed)

	months := monthUnion(making, qtrMaking, expenses)
	rows := make([]domain.MonthlySummaryRow, 0, len(months))
	for _, month := range months {
		row := domain.MonthlySummaryRow{
			Month:            month,
			MakingCharges:    making[month],
			GoldGains:        decimal.NewFromFloat(gainWeight[month]).Mul(goldRate),
			QTRMakingCharges: qtrMaking[month],
			Expenses:         expenses[month],
			FixedCosts:       fixedMonthly,
		}
		row.TotalIncome = row.MakingCharges.Add(row.QTRMakingCharges)
		row.TotalCost = row.Expenses.Add(row.FixedCosts).Neg()
		row.NetProfit = row.TotalIncome.Add(row.TotalCost)
		row.Position = "Loss"
		if row.NetProfit.IsPositive() {
			row.Position = "Profit"
		}
		rows = append(rows, row)
	}
	return rows
}

// monthlyFixedCosts amortizes the configured annual fixed costs plus the
// FIXED-flagged ledger debits over twelve months. Sub-categories modeled
// separately (payroll, rent, loans) stay out of the ledger half so they are
// not counted twice.
func monthlyFixedCosts(ledger []domain.LedgerEntry, fixed []domain.FixedCost) decimal.Decimal {
	total := decimal.Zero
	for _, cost := range fixed {
		total = total.Add(cost.Annual)
	}
	for _, entry := range ledger {
		if entry.CostType != domain.CostTypeFixed {
			continue
		}
		if classify.ExcludedFromTotals(entry.SuperCategory, entry.SubCategory) {
			continue
		}
		total = total.Add(entry.Debit)
	}
	return total.Div(twelve)
}

func monthUnion(tables ...map[string]decimal.Decimal) []string {
	seen := map[string]bool{}
	for _, table := range tables {
		for month := range table {
			seen[month] = true
		}
	}
	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}
