package excel

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goldbook/internal/classify"
	"goldbook/internal/pipeline"
)

// The quarterly sales workbook keeps the sales ledger on the issued-record
// sheet (date, account, voucher, weight, pure, making charge) and the item
// codes with their making rates on a separate detail sheet keyed by voucher.
const (
	SheetIssuedRecord = "Issued Record"
	SheetItemDetails  = "Item Details"

	issuedHeaderRows = 3 // banner, header, units row
	detailHeaderRows = 1
)

// Customer aliases used in the quarterly file for the same trading account.
var quarterlyAccountAliases = map[string]string{
	"VIVAA":   "Vivaa Jewellery Trading LLC",
	"VIVAA S": "Vivaa Jewellery Trading LLC",
}

// QuarterlyMapping renames the quarterly workbook's native column names into
// the canonical sales schema.
func QuarterlyMapping() map[string]string {
	return map[string]string{
		"Voucher":       pipeline.ColInvoice,
		"Date":          pipeline.ColDate,
		"Account":       pipeline.ColCustomer,
		"Item Code":     pipeline.ColItemCode,
		"Purity":        pipeline.ColPurity,
		"Unit Quantity": pipeline.ColQuantity,
		"Weight":        pipeline.ColGrossWeight,
		"Pure":          pipeline.ColPureWeight,
		"Making Rate":   pipeline.ColMakingRate,
		"M-Charge":      pipeline.ColMakingValue,
	}
}

type quarterlyItemDetail struct {
	itemCode   string
	makingRate float64
	hasRate    bool
}

// ParseQuarterly reads the quarterly workbook into raw rows keyed by the
// workbook's native column names, ready for NormalizeSales with
// QuarterlyMapping. Rows with zero weight are excluded (the purity and rate
// derivations divide by weight); a voucher missing from the item-detail
// sheet leaves its joined fields empty rather than failing the row.
func ParseQuarterly(reader io.Reader) ([]map[string]any, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open quarterly workbook: %w", err)
	}
	defer file.Close()

	details, err := readItemDetails(file)
	if err != nil {
		return nil, err
	}

	rows, err := file.GetRows(SheetIssuedRecord)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", SheetIssuedRecord, err)
	}
	if len(rows) <= issuedHeaderRows {
		return nil, nil
	}

	result := make([]map[string]any, 0, len(rows)-issuedHeaderRows)
	for index := issuedHeaderRows; index < len(rows); index++ {
		cells := rows[index]
		date := strings.TrimSpace(readCell(cells, 0))
		if date == "" {
			continue
		}

		weight, err := parseQuantity(readCell(cells, 3))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", SheetIssuedRecord, index+1, err)
		}
		pure, err := parseQuantity(readCell(cells, 4))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", SheetIssuedRecord, index+1, err)
		}
		charge, err := parseQuantity(readCell(cells, 5))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", SheetIssuedRecord, index+1, err)
		}
		if weight == 0 {
			// Purity and making rate derive from weight; a zero-weight
			// row has nothing to classify.
			continue
		}

		account := strings.TrimSpace(readCell(cells, 1))
		if alias, ok := quarterlyAccountAliases[account]; ok {
			account = alias
		}
		voucher := strings.TrimSpace(readCell(cells, 2))

		row := map[string]any{
			"Date":          date,
			"Account":       account,
			"Voucher":       voucher,
			"Weight":        weight,
			"Pure":          pure,
			"M-Charge":      charge,
			"Purity":        round(pure/weight, 3),
			"Making Rate":   round(charge/weight, 2),
			"Unit Quantity": 1,
		}
		// A voucher absent from the detail sheet cleans to the UNK marker.
		itemCode := ""
		if detail, ok := details[voucher]; ok {
			itemCode = detail.itemCode
			if detail.hasRate {
				row["Making Rate"] = detail.makingRate
			}
		}
		row["Item Code"] = classify.CleanQuarterlyCode(itemCode)
		result = append(result, row)
	}
	return result, nil
}

func readItemDetails(file *excelize.File) (map[string]quarterlyItemDetail, error) {
	details := map[string]quarterlyItemDetail{}

	rows, err := file.GetRows(SheetItemDetails)
	if err != nil {
		// The detail sheet is optional; without it every join comes up empty.
		return details, nil
	}

	for index := detailHeaderRows; index < len(rows); index++ {
		cells := rows[index]
		voucher := strings.TrimSpace(readCell(cells, 0))
		if voucher == "" {
			continue
		}
		detail := quarterlyItemDetail{
			itemCode: strings.TrimSpace(readCell(cells, 1)),
		}
		if raw := strings.TrimSpace(readCell(cells, 2)); raw != "" {
			rate, err := parseQuantity(raw)
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d: %w", SheetItemDetails, index+1, err)
			}
			detail.makingRate = rate
			detail.hasRate = true
		}
		details[voucher] = detail
	}
	return details, nil
}

func parseQuantity(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", raw)
	}
	return value, nil
}

func round(value float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(value*scale) / scale
}
