package classify

import (
	"strings"

	"goldbook/internal/domain"
)

// CostRule configures one sub-category of the taxonomy: the raw ledger
// category strings that map onto it and, for expense sub-categories, whether
// the cost is fixed or variable.
type CostRule struct {
	Values []string `json:"values" validate:"required,min=1,dive,required"`
	Key    string   `json:"key" validate:"omitempty,oneof=FIXED VARIABLE"`
}

// Taxonomy is the externally supplied nested mapping
// super-category -> sub-category -> rule. Read-only.
type Taxonomy map[string]map[string]CostRule

// Resolution is the derived three-level categorization of a ledger row.
type Resolution struct {
	SubCategory   string
	SuperCategory string
	CostType      domain.CostType
}

// Resolver precompiles the income and expense taxonomies into flat
// raw-value lookups so per-row resolution is a single map access instead of
// a nested scan.
type Resolver struct {
	income      map[string]Resolution
	expense     map[string]Resolution
	incomeSuper map[string]string // sub-category -> super-category
	expenseSuper map[string]string
}

func NewResolver(income, expense Taxonomy) *Resolver {
	r := &Resolver{
		income:       map[string]Resolution{},
		expense:      map[string]Resolution{},
		incomeSuper:  map[string]string{},
		expenseSuper: map[string]string{},
	}
	compile(income, r.income, r.incomeSuper, false)
	compile(expense, r.expense, r.expenseSuper, true)
	return r
}

func compile(t Taxonomy, values map[string]Resolution, supers map[string]string, withCostType bool) {
	for super, subs := range t {
		for sub, rule := range subs {
			supers[sub] = super
			res := Resolution{SubCategory: sub, SuperCategory: super}
			if withCostType {
				res.CostType = domain.CostType(rule.Key)
			}
			for _, v := range rule.Values {
				values[NormalizeCategory(v)] = res
			}
		}
	}
}

// Resolve categorizes one ledger row. Credit rows resolve against the income
// taxonomy, everything else against the expense taxonomy; cost type is only
// assigned when the row is a debit. A raw category with no mapping degrades
// to Uncategorized, with the super-category looked up from whichever group
// lists Uncategorized as a child.
func (r *Resolver) Resolve(rawCategory string, creditPositive, debitPositive bool) Resolution {
	values, supers := r.expense, r.expenseSuper
	if creditPositive {
		values, supers = r.income, r.incomeSuper
	}

	res, ok := values[NormalizeCategory(rawCategory)]
	if !ok {
		res = Resolution{SubCategory: domain.CategoryUncategorized}
		if super, found := supers[domain.CategoryUncategorized]; found {
			res.SuperCategory = super
		} else {
			res.SuperCategory = domain.CategoryUncategorized
		}
	}
	if !debitPositive {
		res.CostType = domain.CostTypeNone
	}
	return res
}

// NormalizeCategory upper-cases and trims a raw category string before lookup.
func NormalizeCategory(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Sub-categories and the super-category excluded from expense and fixed-cost
// aggregate totals; they are modeled separately as payroll/rent fixed costs
// and would otherwise double-count.
var excludedSubCategories = map[string]bool{
	"Staff Salaries": true,
	"Visa Fees":      true,
	"Loans":          true,
}

const excludedSuperCategory = "Rent"

// ExcludedFromTotals reports whether a ledger row's categorization is kept
// out of expense and fixed-cost aggregates.
func ExcludedFromTotals(superCategory, subCategory string) bool {
	return excludedSubCategories[subCategory] || superCategory == excludedSuperCategory
}
