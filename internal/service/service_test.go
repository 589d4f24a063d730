package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"goldbook/internal/classify"
	"goldbook/internal/domain"
	"goldbook/internal/excel"
	"goldbook/internal/pipeline"
	"goldbook/internal/store"
)

func testResolver() *classify.Resolver {
	income := classify.Taxonomy{
		"Sales": {
			"Making Charges":     {Values: []string{"MAKING"}},
			"QTR Making Charges": {Values: []string{"QTR MAKING"}},
		},
	}
	expense := classify.Taxonomy{
		"Operations": {
			"Utilities": {Values: []string{"DEWA"}, Key: "FIXED"},
		},
	}
	return classify.NewResolver(income, expense)
}

func testService(t *testing.T) *Service {
	t.Helper()
	return New(store.New(), testResolver(), Options{
		DefaultGoldRate: 390,
		CurrentYearOnly: true,
		Now:             func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) },
	})
}

func salesRows() []map[string]any {
	return []map[string]any{{
		"invoice_number": "S1001",
		"date":           "2025-01-15",
		"customer":       "C042",
		"item_code":      "18BRA",
		"purity":         0.755,
		"unit_quantity":  1,
		"gross_weight":   25.0,
		"pure_weight":    18.875,
		"making_rate":    12.0,
		"making_value":   300.0,
	}}
}

func TestIngestSalesMergesBatches(t *testing.T) {
	svc := testService(t)

	first, err := svc.IngestSales(salesRows(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Records)
	assert.NotEmpty(t, first.BatchID)

	second, err := svc.IngestSales(salesRows(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.BatchID, second.BatchID)

	assert.Len(t, svc.Sales(), 2)
}

func TestIngestSalesSchemaRejection(t *testing.T) {
	svc := testService(t)
	_, err := svc.IngestSales(salesRows(), map[string]string{"x": "nope"})
	require.ErrorIs(t, err, pipeline.ErrSchema)
	assert.Empty(t, svc.Sales(), "nothing merges on rejection")
}

func buildCashbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", excel.SheetMainCashbook))
	require.NoError(t, f.SetSheetRow(excel.SheetMainCashbook, "C4", &[]any{"2025-01-02", "OPENING", "", "", "", "5000"}))
	require.NoError(t, f.SetSheetRow(excel.SheetMainCashbook, "C5", &[]any{"2025-01-05", "BILL", "DEWA", "300", "", ""}))
	require.NoError(t, f.SetSheetRow(excel.SheetMainCashbook, "C6", &[]any{"2024-12-05", "OLD BILL", "DEWA", "100", "", ""}))

	_, err := f.NewSheet(excel.SheetQuarterlyCashbook)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(excel.SheetQuarterlyCashbook, "C4", &[]any{"2025-02-01", "QTR JOB", "QTR MAKING", "800", "", ""}))

	_, err = f.NewSheet("NEVERTITI SHJ")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("NEVERTITI SHJ", "A5", &[]any{"2025-03-01", "INV-1", "GOLD LOT", "25", "525"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestIngestCashbook(t *testing.T) {
	svc := testService(t)

	count, err := svc.IngestCashbook(buildCashbook(t), []string{"NEVERTITI SHJ"})
	require.NoError(t, err)
	assert.Equal(t, 4, count, "the 2024 row is filtered out")

	ledger := svc.Ledger(nil)
	byCategory := map[string]domain.LedgerEntry{}
	for _, entry := range ledger {
		byCategory[entry.Category] = entry
	}

	assert.Equal(t, "Utilities", byCategory["DEWA"].SubCategory)
	assert.Equal(t, domain.CostTypeFixed, byCategory["DEWA"].CostType)
	assert.Equal(t, "QTR Making Charges", byCategory["QTR MAKING"].SubCategory)
	assert.Equal(t, "Suppliers", byCategory["NEVERTITI SHJ"].SubCategory)
	assert.Equal(t, domain.CostTypeVariable, byCategory["NEVERTITI SHJ"].CostType)

	qtr := true
	quarterlyOnly := svc.Ledger(&qtr)
	require.Len(t, quarterlyOnly, 1)
	assert.Equal(t, "QTR MAKING", quarterlyOnly[0].Category)
}

func TestIngestCashbookUnknownSupplierSheet(t *testing.T) {
	svc := testService(t)
	_, err := svc.IngestCashbook(buildCashbook(t), []string{"NO SUCH SHEET"})
	require.ErrorIs(t, err, pipeline.ErrSchema)
}

func TestMonthlyReportUsesDefaultGoldRate(t *testing.T) {
	svc := testService(t)
	_, err := svc.IngestSales(salesRows(), nil)
	require.NoError(t, err)

	rows := svc.MonthlyReport(nil, false)
	require.Len(t, rows, 1)

	// Gold gain (0.755-0.75)*25 = 0.125g at the default 390/g.
	assert.InDelta(t, 48.75, rows[0].GoldGains.InexactFloat64(), 1e-9)

	zero := 0.0
	rows = svc.MonthlyReport(&zero, false)
	assert.True(t, rows[0].GoldGains.IsZero())
}

func TestFixedCostReportDefaultsToElapsedMonths(t *testing.T) {
	svc := testService(t)
	svc.SetFixedCosts([]domain.FixedCost{{
		SubCategory: "Rent",
		Annual:      decimal.NewFromInt(12000),
		CostType:    domain.CostTypeFixed,
	}})

	rows := svc.FixedCostReport(0)
	require.Len(t, rows, 1)
	// June clock: 12000/12*6.
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(6000)), "amount %s", rows[0].Amount)
}
