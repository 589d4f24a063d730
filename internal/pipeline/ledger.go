package pipeline

import (
	"github.com/shopspring/decimal"

	"goldbook/internal/classify"
	"goldbook/internal/domain"
)

// RawLedgerRow is one populated row of a cashbook sub-ledger sheet.
type RawLedgerRow struct {
	Date     string
	Details  string
	Category string
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Balance  decimal.Decimal
}

// RawSupplierRow is one row of an ad-hoc supplier account sheet.
type RawSupplierRow struct {
	Date        string
	Invoice     string
	Description string
	VAT         decimal.Decimal
	Total       decimal.Decimal
}

const (
	supplierSuperCategory = "Operations"
	supplierSubCategory   = "Suppliers"
)

// NormalizeLedger builds the working ledger from the main and quarterly
// sub-ledgers. The main ledger's first recorded balance is an opening
// balance with no transaction behind it, so it seeds that row's credit;
// each sub-ledger's balance is then recomputed top-to-bottom as cumulative
// credit minus cumulative debit.
func NormalizeLedger(main, quarterly []RawLedgerRow) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0, len(main)+len(quarterly))

	mainEntries, err := normalizeSubLedger(main, false, true)
	if err != nil {
		return nil, err
	}
	qtrEntries, err := normalizeSubLedger(quarterly, true, false)
	if err != nil {
		return nil, err
	}

	entries = append(entries, mainEntries...)
	entries = append(entries, qtrEntries...)
	return entries, nil
}

func normalizeSubLedger(rows []RawLedgerRow, quarterly, seedOpening bool) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0, len(rows))
	running := decimal.Zero
	for i, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, err
		}
		credit := row.Credit
		if i == 0 && seedOpening {
			credit = row.Balance
		}
		running = running.Add(credit).Sub(row.Debit)
		entries = append(entries, domain.LedgerEntry{
			Date:      date,
			Details:   row.Details,
			Category:  classify.NormalizeCategory(row.Category),
			Debit:     row.Debit,
			Credit:    credit,
			Balance:   running,
			Quarterly: quarterly,
		})
	}
	return entries, nil
}

// ReplaceSupplier injects a supplier sub-ledger into the working ledger.
// Any existing rows tagged with the supplier's category are removed before
// the fresh parse is appended, so re-ingesting the same sheet is idempotent.
// Only rows with a positive total are kept; when year is nonzero, rows from
// other years are dropped too.
func ReplaceSupplier(ledger []domain.LedgerEntry, supplier string, rows []RawSupplierRow, year int) ([]domain.LedgerEntry, error) {
	category := classify.NormalizeCategory(supplier)

	result := make([]domain.LedgerEntry, 0, len(ledger)+len(rows))
	for _, entry := range ledger {
		if entry.Category != category {
			result = append(result, entry)
		}
	}

	for _, row := range rows {
		if !row.Total.IsPositive() {
			continue
		}
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, err
		}
		if year != 0 && date.Year() != year {
			continue
		}
		result = append(result, domain.LedgerEntry{
			Date:          date,
			Details:       row.Description,
			Category:      category,
			Debit:         row.Total,
			Credit:        decimal.Zero,
			SuperCategory: supplierSuperCategory,
			SubCategory:   supplierSubCategory,
			CostType:      domain.CostTypeVariable,
			Quarterly:     false,
		})
	}
	return result, nil
}

// AssignCategories resolves sub-category, super-category and cost type for
// every entry that does not already carry a categorization (supplier rows
// are injected pre-categorized and keep theirs).
func AssignCategories(ledger []domain.LedgerEntry, resolver *classify.Resolver) []domain.LedgerEntry {
	result := make([]domain.LedgerEntry, len(ledger))
	for i, entry := range ledger {
		if entry.SubCategory == "" {
			res := resolver.Resolve(entry.Category, entry.Credit.IsPositive(), entry.Debit.IsPositive())
			entry.SubCategory = res.SubCategory
			entry.SuperCategory = res.SuperCategory
			entry.CostType = res.CostType
		}
		result[i] = entry
	}
	return result
}

// FilterYear keeps only entries dated in the given calendar year.
func FilterYear(ledger []domain.LedgerEntry, year int) []domain.LedgerEntry {
	result := make([]domain.LedgerEntry, 0, len(ledger))
	for _, entry := range ledger {
		if entry.Date.Year() == year {
			result = append(result, entry)
		}
	}
	return result
}
