package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"goldbook/internal/classify"
	"goldbook/internal/domain"
)

// ErrSchema marks a rejected ingestion call: the caller-supplied column
// mapping targets a name outside the canonical column set. Nothing is merged.
var ErrSchema = errors.New("schema violation")

// Canonical sales column names. Sources with different native names are
// renamed into these via the mapping parameter before normalization.
const (
	ColInvoice      = "invoice_number"
	ColDate         = "date"
	ColCustomer     = "customer"
	ColCustomerName = "customer_name"
	ColItemCode     = "item_code"
	ColPurity       = "purity"
	ColQuantity     = "unit_quantity"
	ColGrossWeight  = "gross_weight"
	ColPureWeight   = "pure_weight"
	ColMakingRate   = "making_rate"
	ColMakingValue  = "making_value"
	ColTransaction  = "transaction_type"
)

// RequiredColumns is the canonical required set for a raw sales extract.
var RequiredColumns = []string{
	ColInvoice,
	ColDate,
	ColCustomer,
	ColItemCode,
	ColPurity,
	ColQuantity,
	ColGrossWeight,
	ColPureWeight,
	ColMakingRate,
	ColMakingValue,
}

var optionalColumns = map[string]bool{
	ColCustomerName: true,
	ColTransaction:  true,
}

type SalesOptions struct {
	// Bands overrides the purity band table; nil uses the default table.
	Bands classify.Bands
	// Quarterly tags every record of the batch as quarterly-sourced.
	Quarterly bool
}

// ValidateMapping rejects a rename mapping whose targets fall outside the
// canonical column set, before any row is touched.
func ValidateMapping(mapping map[string]string) error {
	if len(mapping) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(RequiredColumns)+len(optionalColumns))
	for _, col := range RequiredColumns {
		allowed[col] = true
	}
	for col := range optionalColumns {
		allowed[col] = true
	}
	for from, to := range mapping {
		if !allowed[to] {
			return fmt.Errorf("mapping %q -> %q: %q is not a canonical column: %w", from, to, to, ErrSchema)
		}
	}
	return nil
}

// NormalizeSales turns one raw sales extract into canonical records:
// rename, period keys, item categorization (with the batch-level
// uncategorized-noise drop), 0.995 artifact drop, purity classification,
// gold gain, per-unit weight and weight-range binning. A purity outside all
// bands fails the whole batch; no partial result is returned.
func NormalizeSales(rows []map[string]any, mapping map[string]string, opts SalesOptions) ([]domain.SalesRecord, error) {
	if err := ValidateMapping(mapping); err != nil {
		return nil, err
	}
	bands := opts.Bands
	if bands == nil {
		bands = classify.DefaultBands()
	}

	records := make([]domain.SalesRecord, 0, len(rows))
	genuineUncategorized := false

	for i, raw := range rows {
		row := renameRow(raw, mapping)

		date, err := fieldTime(row, ColDate)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		purity, err := fieldFloat(row, ColPurity)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if purity == classify.ArtifactPurity {
			// Non-sale adjustment record, not an error.
			continue
		}
		quantity, err := fieldInt(row, ColQuantity)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		grossWeight, err := fieldFloat(row, ColGrossWeight)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		pureWeight, err := fieldFloat(row, ColPureWeight)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		makingRate, err := fieldFloat(row, ColMakingRate)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		makingValue, err := fieldFloat(row, ColMakingValue)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		itemCode := strings.ToUpper(strings.TrimSpace(fieldStringOr(row, ColItemCode, "")))
		if classify.GenuineUncategorized(itemCode) {
			genuineUncategorized = true
		}

		txType := domain.TransactionSale
		if v := fieldStringOr(row, ColTransaction, ""); v != "" {
			txType = domain.TransactionType(strings.ToUpper(strings.TrimSpace(v)))
		}

		rec := domain.SalesRecord{
			Invoice:      fieldStringOr(row, ColInvoice, ""),
			Date:         date,
			Month:        date.Format("2006-01"),
			Week:         isoWeek(date),
			Day:          date.Format("2006-01-02"),
			CustomerID:   fieldStringOr(row, ColCustomer, ""),
			CustomerName: fieldStringOr(row, ColCustomerName, ""),
			ItemCode:     itemCode,
			ItemCategory: classify.ItemCategory(itemCode),
			Purity:       purity,
			Quantity:     quantity,
			GrossWeight:  grossWeight,
			PureWeight:   pureWeight,
			MakingRate:   makingRate,
			MakingValue:  makingValue,
			Type:         txType,
			Quarterly:    opts.Quarterly,
		}
		records = append(records, rec)
	}

	// Uncategorized item rows are parse noise from malformed codes unless
	// the batch carries genuinely uncategorized codes (UNCAT/UNK).
	if !genuineUncategorized {
		kept := records[:0]
		for _, rec := range records {
			if rec.ItemCategory != domain.CategoryUncategorized {
				kept = append(kept, rec)
			}
		}
		records = kept
	}

	for i := range records {
		band, err := bands.Classify(records[i].Purity)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", records[i].Invoice, err)
		}
		records[i].PurityCategory = band.Karat
		records[i].ManufacturingPurity = band.Floor
		records[i].GoldGain = classify.GoldGain(records[i].Purity, band.Floor, records[i].GrossWeight)

		if records[i].Quantity > 0 {
			records[i].ItemWeight = records[i].GrossWeight / float64(records[i].Quantity)
			records[i].WeightRange = WeightRange(records[i].ItemWeight)
		}
	}

	return records, nil
}

// MergeSales is the accumulation reducer: it returns a fresh table holding
// the existing records followed by the new batch. Neither input is mutated;
// batches are concatenated, never deduplicated.
func MergeSales(existing, batch []domain.SalesRecord) []domain.SalesRecord {
	merged := make([]domain.SalesRecord, 0, len(existing)+len(batch))
	merged = append(merged, existing...)
	merged = append(merged, batch...)
	return merged
}

// WeightRange bins a per-unit item weight. Buckets are left-inclusive,
// right-exclusive, with an open-ended top bucket; negative weights (returns)
// stay unbinned.
func WeightRange(itemWeight float64) string {
	switch {
	case itemWeight < 0:
		return ""
	case itemWeight < 20:
		return "<20g"
	case itemWeight < 30:
		return "20-30g"
	case itemWeight < 40:
		return "30-40g"
	case itemWeight < 50:
		return "40-50g"
	case itemWeight < 100:
		return "50-100g"
	case itemWeight < 150:
		return "100-150g"
	default:
		return ">150g"
	}
}

func renameRow(row map[string]any, mapping map[string]string) map[string]any {
	if len(mapping) == 0 {
		return row
	}
	renamed := make(map[string]any, len(row))
	for k, v := range row {
		if to, ok := mapping[k]; ok {
			renamed[to] = v
		} else {
			renamed[k] = v
		}
	}
	return renamed
}

func isoWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
