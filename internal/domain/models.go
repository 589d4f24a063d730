package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSale       TransactionType = "SALE"
	TransactionPurchase   TransactionType = "PURCHASE"
	TransactionReturn     TransactionType = "RETURN"
	TransactionDirectSale TransactionType = "DIRECT_SALE"
	TransactionUnknown    TransactionType = "UNKNOWN"
)

type CostType string

const (
	CostTypeFixed    CostType = "FIXED"
	CostTypeVariable CostType = "VARIABLE"
	CostTypeNone     CostType = ""
)

const CategoryUncategorized = "Uncategorized"

// SalesRecord is one canonical sales line item. Records are created once by
// normalization and never mutated; batches from different sources are
// concatenated into one running table for the session.
type SalesRecord struct {
	Invoice             string          `json:"invoice"`
	Date                time.Time       `json:"date"`
	Month               string          `json:"month"`
	Week                string          `json:"week"`
	Day                 string          `json:"day"`
	CustomerID          string          `json:"customer_id"`
	CustomerName        string          `json:"customer_name,omitempty"`
	ItemCode            string          `json:"item_code"`
	ItemCategory        string          `json:"item_category"`
	Purity              float64         `json:"purity"`
	PurityCategory      string          `json:"purity_category"`
	ManufacturingPurity float64         `json:"manufacturing_purity"`
	Quantity            int             `json:"unit_quantity"`
	GrossWeight         float64         `json:"gross_weight"`
	PureWeight          float64         `json:"pure_weight"`
	MakingRate          float64         `json:"making_rate"`
	MakingValue         float64         `json:"making_value"`
	GoldGain            float64         `json:"gold_gain"`
	ItemWeight          float64         `json:"item_weight"`
	WeightRange         string          `json:"weight_range"`
	Type                TransactionType `json:"transaction_type"`
	Quarterly           bool            `json:"qtr"`
}

// LedgerEntry is one canonical cashbook row. At most one of Debit/Credit is
// nonzero on a conventional entry; Balance is recomputed per sub-ledger as
// cumulative credit minus cumulative debit.
type LedgerEntry struct {
	Date          time.Time       `json:"date"`
	Details       string          `json:"details"`
	Category      string          `json:"category"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	SuperCategory string          `json:"super_category"`
	SubCategory   string          `json:"sub_category"`
	CostType      CostType        `json:"cost_type"`
	Quarterly     bool            `json:"qtr"`
}

// FixedCost is a statically configured annual cost, amortized per month by
// the aggregator. Not derived from transactions.
type FixedCost struct {
	SubCategory   string          `json:"sub_category"`
	SuperCategory string          `json:"super_category"`
	Annual        decimal.Decimal `json:"annual"`
	CostType      CostType        `json:"cost_type"`
}

// MonthlySummaryRow is one month of the financial summary.
// Invariants: TotalIncome = MakingCharges + QTRMakingCharges,
// TotalCost = -(Expenses + FixedCosts), NetProfit = TotalIncome + TotalCost,
// Position = "Profit" iff NetProfit > 0.
type MonthlySummaryRow struct {
	Month            string          `json:"month"`
	MakingCharges    decimal.Decimal `json:"making_charges"`
	GoldGains        decimal.Decimal `json:"gold_gains"`
	QTRMakingCharges decimal.Decimal `json:"qtr_making_charges"`
	Expenses         decimal.Decimal `json:"expenses"`
	FixedCosts       decimal.Decimal `json:"fixed_costs"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	Position         string          `json:"position"`
}

type CostBreakdownRow struct {
	SuperCategory string          `json:"super_category"`
	SubCategory   string          `json:"sub_category"`
	CostType      CostType        `json:"cost_type"`
	Amount        decimal.Decimal `json:"amount"`
}

type SalesMonthRow struct {
	Month       string  `json:"month"`
	GrossWeight float64 `json:"gross_weight"`
	MakingValue float64 `json:"making_value"`
}

type SalesCategoryRow struct {
	PurityCategory string  `json:"purity_category"`
	ItemCategory   string  `json:"item_category"`
	GrossWeight    float64 `json:"gross_weight"`
	AvgMakingRate  float64 `json:"avg_making_rate"`
	MakingValue    float64 `json:"making_value"`
}
