package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
)

// Catalog returns the configured expense catalog, or the embedded default.
func (c Config) Catalog() (*catalog.Catalog, error) {
	if c.General.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(c.General.CatalogPath)
}

// Policy converts the adjuster reduction order to a budget policy.
func (c Config) Policy() (budget.Policy, error) {
	if len(c.Adjuster.ReductionOrder) == 0 {
		return budget.DefaultPolicy(), nil
	}

	var p budget.Policy
	seen := make(map[catalog.Category]bool)
	for _, name := range c.Adjuster.ReductionOrder {
		var cat catalog.Category
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "needs":
			cat = catalog.Needs
		case "wants":
			cat = catalog.Wants
		default:
			return budget.Policy{}, fmt.Errorf("adjuster.reduction_order: unknown category %q", name)
		}
		if seen[cat] {
			return budget.Policy{}, fmt.Errorf("adjuster.reduction_order: %s listed twice", cat)
		}
		seen[cat] = true
		p.ReductionOrder = append(p.ReductionOrder, cat)
	}
	return p, nil
}

// BudgetConfig assembles the session configuration.
func (c Config) BudgetConfig(logger *slog.Logger) (budget.Config, error) {
	cfg := budget.DefaultConfig()
	cfg.Logger = logger

	cat, err := c.Catalog()
	if err != nil {
		return cfg, err
	}
	cfg.Catalog = cat

	if cfg.Policy, err = c.Policy(); err != nil {
		return cfg, err
	}
	if c.Adjuster.MaxCycles > 0 {
		cfg.MaxCycles = c.Adjuster.MaxCycles
	}
	return cfg, nil
}
