package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"goldbook/internal/classify"
	"goldbook/internal/domain"
)

type Config struct {
	Port                  int     `envconfig:"PORT" default:"8080"`
	IncomeCategoriesPath  string  `envconfig:"INCOME_CATEGORIES_PATH" default:"configs/income_categories.json"`
	ExpenseCategoriesPath string  `envconfig:"EXPENSE_CATEGORIES_PATH" default:"configs/expense_categories.json"`
	FixedCostsPath        string  `envconfig:"FIXED_COSTS_PATH" default:"configs/fixed_costs.json"`
	DefaultGoldRate       float64 `envconfig:"DEFAULT_GOLD_RATE" default:"390"`
	CurrentYearOnly       bool    `envconfig:"CURRENT_YEAR_ONLY" default:"true"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("goldbook", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	if cfg.Port <= 0 {
		return Config{}, fmt.Errorf("invalid PORT: %d", cfg.Port)
	}
	if cfg.DefaultGoldRate < 0 {
		return Config{}, fmt.Errorf("invalid DEFAULT_GOLD_RATE: %v", cfg.DefaultGoldRate)
	}
	return cfg, nil
}

var validate = validator.New()

// LoadTaxonomy reads and validates a category mapping file:
// {super-category: {sub-category: {"values": [...], "key": "FIXED"|"VARIABLE"}}}.
// Malformed configuration fails here, at startup, never mid-aggregation.
func LoadTaxonomy(path string) (classify.Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}

	var taxonomy classify.Taxonomy
	if err := json.Unmarshal(data, &taxonomy); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}

	for super, subs := range taxonomy {
		if len(subs) == 0 {
			return nil, fmt.Errorf("taxonomy %s: super-category %q has no sub-categories", path, super)
		}
		for sub, rule := range subs {
			if err := validate.Struct(rule); err != nil {
				return nil, fmt.Errorf("taxonomy %s: %s/%s: %w", path, super, sub, err)
			}
		}
	}
	return taxonomy, nil
}

type fixedCostEntry struct {
	SuperCategory string  `json:"super_category" validate:"required"`
	AnnualCost    float64 `json:"annual_cost" validate:"gte=0"`
}

// LoadFixedCosts reads the static fixed-cost table:
// {sub-category: {"super_category": ..., "annual_cost": ...}}.
// Entries come back sorted by sub-category for stable output.
func LoadFixedCosts(path string) ([]domain.FixedCost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixed costs %s: %w", path, err)
	}

	var entries map[string]fixedCostEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse fixed costs %s: %w", path, err)
	}

	costs := make([]domain.FixedCost, 0, len(entries))
	for sub, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("fixed costs %s: %s: %w", path, sub, err)
		}
		costs = append(costs, domain.FixedCost{
			SubCategory:   sub,
			SuperCategory: entry.SuperCategory,
			Annual:        decimal.NewFromFloat(entry.AnnualCost),
			CostType:      domain.CostTypeFixed,
		})
	}
	sort.Slice(costs, func(i, j int) bool { return costs[i].SubCategory < costs[j].SubCategory })
	return costs, nil
}
