package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DISCOUNT TIERS
// =============================================================================

// AnyCategory keys the table used for categories without their own tiers.
const AnyCategory = "*"

// Tier grants Rate percent off once an order reaches Threshold units.
type Tier struct {
	Threshold int     `json:"threshold" validate:"gte=0"`
	Rate      float64 `json:"rate" validate:"gte=0,lte=100"`
}

// DiscountSchedule maps a catalog category to its tiers. It is plain
// configuration; callers inject whatever table they load.
type DiscountSchedule map[string][]Tier

// DefaultDiscountSchedule is the bulk discount used when no table is
// configured: 10% from 100 units, 15% from 500 units.
func DefaultDiscountSchedule() DiscountSchedule {
	return DiscountSchedule{
		AnyCategory: {
			{Threshold: 100, Rate: 10},
			{Threshold: 500, Rate: 15},
		},
	}
}

// RateFor returns the discount percent for quantity units of category: the
// rate of the highest threshold reached, or 0.
func (s DiscountSchedule) RateFor(category string, quantity int) float64 {
	tiers, ok := s[category]
	if !ok {
		tiers = s[AnyCategory]
	}
	rate := 0.0
	best := -1
	for _, t := range tiers {
		if quantity >= t.Threshold && t.Threshold > best {
			best = t.Threshold
			rate = t.Rate
		}
	}
	return rate
}

// Normalize sorts every category's tiers by threshold.
func (s DiscountSchedule) Normalize() {
	for _, tiers := range s {
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].Threshold < tiers[j].Threshold })
	}
}

// Subtotal returns unitPrice * quantity less ratePercent, rounded to cents.
// Rounding happens here, at presentation, and nowhere in the ledger.
func Subtotal(unitPrice float64, quantity int, ratePercent float64) float64 {
	gross := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	keep := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(ratePercent)).Div(decimal.NewFromInt(100))
	return gross.Mul(keep).Round(2).InexactFloat64()
}
