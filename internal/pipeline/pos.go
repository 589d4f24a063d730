package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"goldbook/internal/domain"
)

// Point-of-sale exports arrive as CSV table dumps: the transaction table
// (bin card) and the account table keyed by account code.

// POSMapping renames the point-of-sale export's native column names into the
// canonical sales schema.
func POSMapping() map[string]string {
	return map[string]string{
		"DocNumber":   ColInvoice,
		"DocDate":     ColDate,
		"TaCode":      ColCustomer,
		"TAName":      ColCustomerName,
		"ItemCode":    ColItemCode,
		"Purity":      ColPurity,
		"QtyInPcs":    ColQuantity,
		"GrossWt":     ColGrossWeight,
		"PureWt":      ColPureWeight,
		"MakingRt":    ColMakingRate,
		"MakingValue": ColMakingValue,
	}
}

// TransactionTypeForDoc classifies a document number by its prefix.
func TransactionTypeForDoc(docNumber string) domain.TransactionType {
	switch {
	case strings.HasPrefix(docNumber, "S"):
		return domain.TransactionSale
	case strings.HasPrefix(docNumber, "P"):
		return domain.TransactionPurchase
	case strings.HasPrefix(docNumber, "R"):
		return domain.TransactionReturn
	case strings.HasPrefix(docNumber, "D"):
		return domain.TransactionDirectSale
	default:
		return domain.TransactionUnknown
	}
}

var llcPattern = regexp.MustCompile(`[Ll]\.?[Ll]\.?[Cc]`)

// FixAccountName repairs the display names stored in the point-of-sale
// account table: spaced-out house names, shouting case, LLC spellings.
func FixAccountName(name string) string {
	name = strings.ReplaceAll(name, "V I V A A", "Vivaa")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	name = strings.Join(words, " ")
	return llcPattern.ReplaceAllString(name, "LLC")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	lower := strings.ToLower(w)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// NormalizePOS reads a point-of-sale transaction export and its account
// export and produces canonical sales records. Only sale and return
// documents survive; returns contribute gross weight, pure weight and making
// value with inverted sign while purity fields stay positive.
func NormalizePOS(transactions, accounts io.Reader, opts SalesOptions) ([]domain.SalesRecord, error) {
	names, err := readAccountNames(accounts)
	if err != nil {
		return nil, err
	}

	rows, err := readCSVRows(transactions)
	if err != nil {
		return nil, fmt.Errorf("read transactions export: %w", err)
	}

	prepared := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		doc := fieldStringOr(row, "DocNumber", "")
		txType := TransactionTypeForDoc(doc)
		if txType != domain.TransactionSale && txType != domain.TransactionReturn {
			continue
		}
		row[ColTransaction] = string(txType)

		// Epoch artifact in the export: year 0001 stands for 1971.
		if date, ok := row["DocDate"].(string); ok {
			row["DocDate"] = strings.Replace(date, "0001", "1971", 1)
		}

		if name, ok := names[fieldStringOr(row, "TaCode", "")]; ok {
			row["TAName"] = name
		}

		if txType == domain.TransactionReturn {
			for _, key := range []string{"GrossWt", "PureWt", "MakingValue"} {
				v, err := fieldFloat(row, key)
				if err != nil {
					return nil, fmt.Errorf("document %s: %w", doc, err)
				}
				row[key] = -v
			}
		}
		prepared = append(prepared, row)
	}

	return NormalizeSales(prepared, POSMapping(), opts)
}

func readAccountNames(accounts io.Reader) (map[string]string, error) {
	if accounts == nil {
		return map[string]string{}, nil
	}
	rows, err := readCSVRows(accounts)
	if err != nil {
		return nil, fmt.Errorf("read accounts export: %w", err)
	}
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		code := strings.TrimSpace(fieldStringOr(row, "TACode", fieldStringOr(row, "TaCode", "")))
		if code == "" {
			continue
		}
		names[code] = FixAccountName(fieldStringOr(row, "TAName", ""))
	}
	return names, nil
}

func readCSVRows(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("export has no header row")
	}
	header := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[strings.TrimSpace(col)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
