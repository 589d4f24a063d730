package service

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"goldbook/internal/classify"
	"goldbook/internal/domain"
	"goldbook/internal/excel"
	"goldbook/internal/pipeline"
	"goldbook/internal/report"
	"goldbook/internal/store"
)

// Service orchestrates ingestion and reporting over the session store. It
// owns the compiled category resolver and the purity band table; handlers
// stay transport-only.
type Service struct {
	store           *store.Store
	resolver        *classify.Resolver
	bands           classify.Bands
	defaultGoldRate decimal.Decimal
	currentYearOnly bool
	now             func() time.Time
}

type Options struct {
	// Bands overrides the purity band table; nil uses the default table.
	Bands           classify.Bands
	DefaultGoldRate float64
	CurrentYearOnly bool
	// Now is the clock used for year filtering; nil uses time.Now.
	Now func() time.Time
}

func New(st *store.Store, resolver *classify.Resolver, opts Options) *Service {
	bands := opts.Bands
	if bands == nil {
		bands = classify.DefaultBands()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:           st,
		resolver:        resolver,
		bands:           bands,
		defaultGoldRate: decimal.NewFromFloat(opts.DefaultGoldRate),
		currentYearOnly: opts.CurrentYearOnly,
		now:             now,
	}
}

// IngestResult reports one accepted ingestion batch.
type IngestResult struct {
	BatchID string `json:"batch_id"`
	Records int    `json:"records"`
}

// IngestSales normalizes raw sales rows under the given column mapping and
// merges them into the running sales table.
func (s *Service) IngestSales(rows []map[string]any, mapping map[string]string) (IngestResult, error) {
	records, err := pipeline.NormalizeSales(rows, mapping, pipeline.SalesOptions{Bands: s.bands})
	if err != nil {
		return IngestResult{}, err
	}
	return IngestResult{BatchID: s.store.MergeSales(records), Records: len(records)}, nil
}

// IngestPOS normalizes a POS transaction export, with optional account
// display names, and merges the resulting sales rows.
func (s *Service) IngestPOS(transactions, accounts io.Reader) (IngestResult, error) {
	records, err := pipeline.NormalizePOS(transactions, accounts, pipeline.SalesOptions{Bands: s.bands})
	if err != nil {
		return IngestResult{}, err
	}
	return IngestResult{BatchID: s.store.MergeSales(records), Records: len(records)}, nil
}

// IngestQuarterly parses a quarterly sales workbook and merges its rows,
// tagged as quarterly-sourced.
func (s *Service) IngestQuarterly(workbook io.Reader) (IngestResult, error) {
	rows, err := excel.ParseQuarterly(workbook)
	if err != nil {
		return IngestResult{}, err
	}
	records, err := pipeline.NormalizeSales(rows, excel.QuarterlyMapping(), pipeline.SalesOptions{
		Bands:     s.bands,
		Quarterly: true,
	})
	if err != nil {
		return IngestResult{}, err
	}
	return IngestResult{BatchID: s.store.MergeSales(records), Records: len(records)}, nil
}

// IngestCashbook rebuilds the ledger from a cashbook workbook: both
// sub-ledgers, the named supplier sheets, category assignment, and the
// optional current-year filter. The previous ledger table is replaced.
func (s *Service) IngestCashbook(workbook io.Reader, supplierSheets []string) (int, error) {
	wb, err := excel.OpenCashbook(workbook)
	if err != nil {
		return 0, err
	}
	defer wb.Close()

	main, err := wb.MainLedger()
	if err != nil {
		return 0, err
	}
	quarterly, err := wb.QuarterlyLedger()
	if err != nil {
		return 0, err
	}
	ledger, err := pipeline.NormalizeLedger(main, quarterly)
	if err != nil {
		return 0, err
	}

	year := s.now().Year()
	for _, sheet := range supplierSheets {
		if !wb.HasSheet(sheet) {
			return 0, fmt.Errorf("supplier sheet %q not found: %w", sheet, pipeline.ErrSchema)
		}
		rows, err := wb.SupplierLedger(sheet)
		if err != nil {
			return 0, err
		}
		ledger, err = pipeline.ReplaceSupplier(ledger, sheet, rows, year)
		if err != nil {
			return 0, err
		}
	}

	ledger = pipeline.AssignCategories(ledger, s.resolver)
	if s.currentYearOnly {
		ledger = pipeline.FilterYear(ledger, year)
	}

	s.store.ReplaceLedger(ledger)
	return len(ledger), nil
}

func (s *Service) Sales() []domain.SalesRecord {
	return s.store.Sales()
}

// Ledger returns the ledger table, optionally narrowed to one sub-ledger.
func (s *Service) Ledger(quarterly *bool) []domain.LedgerEntry {
	entries := s.store.Ledger()
	if quarterly == nil {
		return entries
	}
	filtered := make([]domain.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Quarterly == *quarterly {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// MonthlyReport builds the monthly financial summary. A nil gold rate falls
// back to the configured default.
func (s *Service) MonthlyReport(goldRate *float64, includeQuarterly bool) []domain.MonthlySummaryRow {
	rate := s.defaultGoldRate
	if goldRate != nil {
		rate = decimal.NewFromFloat(*goldRate)
	}
	sales := s.store.Sales()
	if !includeQuarterly {
		kept := sales[:0]
		for _, rec := range sales {
			if !rec.Quarterly {
				kept = append(kept, rec)
			}
		}
		sales = kept
	}
	return report.MonthlySummary(sales, s.store.Ledger(), s.store.FixedCosts(), rate)
}

// FixedCostReport builds the fixed-cost breakdown. elapsedMonths of 0 uses
// the months elapsed in the current year.
func (s *Service) FixedCostReport(elapsedMonths int) []domain.CostBreakdownRow {
	if elapsedMonths == 0 {
		elapsedMonths = int(s.now().Month())
	}
	return report.FixedCostBreakdown(s.store.Ledger(), s.store.FixedCosts(), elapsedMonths)
}

func (s *Service) VariableCostReport() []domain.CostBreakdownRow {
	return report.VariableCostBreakdown(s.store.Ledger())
}

func (s *Service) SalesByMonth(includeQuarterly bool) []domain.SalesMonthRow {
	return report.MonthlySales(s.store.Sales(), report.SalesFilter{IncludeQuarterly: includeQuarterly})
}

func (s *Service) SalesByCategory(includeQuarterly bool) []domain.SalesCategoryRow {
	return report.CategoryRollup(s.store.Sales(), report.SalesFilter{IncludeQuarterly: includeQuarterly})
}

func (s *Service) SetFixedCosts(fixed []domain.FixedCost) {
	s.store.SetFixedCosts(fixed)
}
