/*
Package factory builds catalog and pricing configuration from JSON and
seeds a store with a reproducible starting inventory.

JSON SCHEMA (supplies):
  [
    {"item_name": "Carbon mesh panel", "category": "material", "unit_price": 5.00},
    ...
  ]

JSON SCHEMA (discounts):
  {
    "*":         [{"threshold": 100, "rate": 10}, {"threshold": 500, "rate": 15}],
    "equipment": [{"threshold": 50, "rate": 5}]
  }

DETERMINISM:
  GenerateInventory draws every random value from a generator seeded with
  the caller's seed, in a fixed order. Same supplies + coverage + seed always
  yields the same catalog.

USAGE:
  f := factory.New()
  supplies, err := f.ParseSupplies(data)
  entries := factory.GenerateInventory(supplies, 1.0, 137)

SEE ALSO:
  - seed.go: Writes the generated catalog and opening stock to a store
  - pricing/discount.go: DiscountSchedule
*/
package factory

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/warp/supply-ledger/ledger"
	"github.com/warp/supply-ledger/pricing"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SupplyItem is one line of the supply list: the raw input of seeding.
type SupplyItem struct {
	ItemName  string  `json:"item_name" validate:"required"`
	Category  string  `json:"category" validate:"required"`
	UnitPrice float64 `json:"unit_price" validate:"gt=0"`
}

// Factory parses and validates configuration documents.
type Factory struct {
	validate *validator.Validate
}

func New() *Factory {
	return &Factory{validate: validator.New()}
}

// ParseSupplies decodes and validates a supply list.
func (f *Factory) ParseSupplies(data []byte) ([]SupplyItem, error) {
	var items []SupplyItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid supplies JSON: %w", err)
	}
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if err := f.validate.Struct(item); err != nil {
			return nil, fmt.Errorf("supply %d: %w", i, err)
		}
		if seen[item.ItemName] {
			return nil, fmt.Errorf("supply %d: duplicate item %q", i, item.ItemName)
		}
		seen[item.ItemName] = true
	}
	return items, nil
}

// ParseDiscounts decodes and validates a discount table.
func (f *Factory) ParseDiscounts(data []byte) (pricing.DiscountSchedule, error) {
	var schedule pricing.DiscountSchedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("invalid discounts JSON: %w", err)
	}
	for category, tiers := range schedule {
		for i, tier := range tiers {
			if err := f.validate.Struct(tier); err != nil {
				return nil, fmt.Errorf("discount %s[%d]: %w", category, i, err)
			}
		}
	}
	schedule.Normalize()
	return schedule, nil
}

// =============================================================================
// INVENTORY GENERATION
// =============================================================================

// Markup bounds of sell over buy price, and stock ranges (upper bound
// exclusive).
const (
	minMarkup     = 1.60
	maxMarkup     = 1.90
	minStock      = 5
	maxStock      = 30
	minStockLevel = 2
	maxStockLevel = 10
)

// GenerateInventory selects int(len(supplies) * coverage) items at random
// and derives their catalog attributes:
//   - buy price is the supply unit price
//   - sell price is buy price times [1.60, 1.90), rounded to cents
//   - opening stock in [5, 30), reorder level in [2, 10)
func GenerateInventory(supplies []SupplyItem, coverage float64, seed int64) []ledger.CatalogEntry {
	rng := rand.New(rand.NewSource(seed))

	n := int(float64(len(supplies)) * coverage)
	if n > len(supplies) {
		n = len(supplies)
	}
	if n < 0 {
		n = 0
	}

	selected := rng.Perm(len(supplies))[:n]
	entries := make([]ledger.CatalogEntry, 0, n)
	for _, i := range selected {
		item := supplies[i]
		markup := minMarkup + rng.Float64()*(maxMarkup-minMarkup)
		entries = append(entries, ledger.CatalogEntry{
			ItemName:      item.ItemName,
			Category:      item.Category,
			BuyUnitPrice:  item.UnitPrice,
			SellUnitPrice: roundCents(item.UnitPrice * markup),
			CurrentStock:  minStock + rng.Intn(maxStock-minStock),
			MinStockLevel: minStockLevel + rng.Intn(maxStockLevel-minStockLevel),
		})
	}
	return entries
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
