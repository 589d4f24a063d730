package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"goldbook/internal/pipeline"
)

// Cashbook workbooks carry two sub-ledgers plus ad-hoc supplier account
// sheets. Sub-ledger sheets put their 6 columns at C..H below two banner
// rows; the quarterly sheet swaps the credit and debit columns. Supplier
// sheets put 5 columns at A..E below three banner rows.
const (
	SheetMainCashbook      = "MAIN CASH BOOK"
	SheetQuarterlyCashbook = "QTR CASH"

	ledgerHeaderRows   = 3
	ledgerFirstColumn  = 2 // column C
	supplierHeaderRows = 4
)

type CashbookWorkbook struct {
	file *excelize.File
}

func OpenCashbook(reader io.Reader) (*CashbookWorkbook, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open cashbook workbook: %w", err)
	}
	return &CashbookWorkbook{file: file}, nil
}

func (w *CashbookWorkbook) Close() error {
	return w.file.Close()
}

// HasSheet reports whether the workbook contains the named sheet.
func (w *CashbookWorkbook) HasSheet(name string) bool {
	for _, sheet := range w.file.GetSheetList() {
		if sheet == name {
			return true
		}
	}
	return false
}

// MainLedger reads the main cashbook sub-ledger.
func (w *CashbookWorkbook) MainLedger() ([]pipeline.RawLedgerRow, error) {
	return w.ledgerSheet(SheetMainCashbook, false)
}

// QuarterlyLedger reads the quarterly cash sub-ledger (credit before debit).
func (w *CashbookWorkbook) QuarterlyLedger() ([]pipeline.RawLedgerRow, error) {
	return w.ledgerSheet(SheetQuarterlyCashbook, true)
}

func (w *CashbookWorkbook) ledgerSheet(name string, creditFirst bool) ([]pipeline.RawLedgerRow, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) <= ledgerHeaderRows {
		return nil, nil
	}

	result := make([]pipeline.RawLedgerRow, 0, len(rows)-ledgerHeaderRows)
	for index := ledgerHeaderRows; index < len(rows); index++ {
		cells := rows[index]
		date := strings.TrimSpace(readCell(cells, ledgerFirstColumn))
		if date == "" {
			// Rows without a date are padding, not entries.
			continue
		}

		row := pipeline.RawLedgerRow{
			Date:     date,
			Details:  strings.TrimSpace(readCell(cells, ledgerFirstColumn+1)),
			Category: strings.TrimSpace(readCell(cells, ledgerFirstColumn+2)),
		}

		first, err := parseAmount(readCell(cells, ledgerFirstColumn+3))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", name, index+1, err)
		}
		second, err := parseAmount(readCell(cells, ledgerFirstColumn+4))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", name, index+1, err)
		}
		if creditFirst {
			row.Credit, row.Debit = first, second
		} else {
			row.Debit, row.Credit = first, second
		}

		row.Balance, err = parseAmount(readCell(cells, ledgerFirstColumn+5))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", name, index+1, err)
		}

		result = append(result, row)
	}
	return result, nil
}

// SupplierLedger reads one supplier account sheet.
func (w *CashbookWorkbook) SupplierLedger(name string) ([]pipeline.RawSupplierRow, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read supplier sheet %q: %w", name, err)
	}
	if len(rows) <= supplierHeaderRows {
		return nil, nil
	}

	result := make([]pipeline.RawSupplierRow, 0, len(rows)-supplierHeaderRows)
	for index := supplierHeaderRows; index < len(rows); index++ {
		cells := rows[index]
		date := strings.TrimSpace(readCell(cells, 0))
		if date == "" {
			continue
		}

		vat, err := parseAmount(readCell(cells, 3))
		if err != nil {
			return nil, fmt.Errorf("supplier sheet %q row %d: %w", name, index+1, err)
		}
		total, err := parseAmount(readCell(cells, 4))
		if err != nil {
			return nil, fmt.Errorf("supplier sheet %q row %d: %w", name, index+1, err)
		}

		result = append(result, pipeline.RawSupplierRow{
			Date:        date,
			Invoice:     strings.TrimSpace(readCell(cells, 1)),
			Description: strings.TrimSpace(readCell(cells, 2)),
			VAT:         vat,
			Total:       total,
		})
	}
	return result, nil
}

func readCell(cells []string, index int) string {
	if index < 0 || index >= len(cells) {
		return ""
	}
	return cells[index]
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" || raw == "-" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return value, nil
}
