package factory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/supply-ledger/ledger"
	"github.com/warp/supply-ledger/ledger/store"
	"github.com/warp/supply-ledger/pricing"
)

// =============================================================================
// PARSING
// =============================================================================

func TestParseSupplies_Valid(t *testing.T) {
	f := New()
	data := `[
		{"item_name": "Carbon mesh panel", "category": "material", "unit_price": 5.00},
		{"item_name": "Oxygen canister", "category": "equipment", "unit_price": 42.5}
	]`

	items, err := f.ParseSupplies([]byte(data))

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, SupplyItem{ItemName: "Oxygen canister", Category: "equipment", UnitPrice: 42.5}, items[1])
}

func TestParseSupplies_Rejects(t *testing.T) {
	f := New()
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `[{"item_name": }]`},
		{"missing name", `[{"category": "material", "unit_price": 1}]`},
		{"missing category", `[{"item_name": "X", "unit_price": 1}]`},
		{"zero price", `[{"item_name": "X", "category": "material", "unit_price": 0}]`},
		{"duplicate", `[
			{"item_name": "X", "category": "material", "unit_price": 1},
			{"item_name": "X", "category": "material", "unit_price": 2}
		]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseSupplies([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDefaultSupplies_AreValid(t *testing.T) {
	data, err := json.Marshal(DefaultSupplies())
	require.NoError(t, err)

	items, err := New().ParseSupplies(data)

	require.NoError(t, err)
	assert.Len(t, items, len(DefaultSupplies()))
}

func TestParseDiscounts(t *testing.T) {
	f := New()
	data := `{
		"*": [{"threshold": 500, "rate": 15}, {"threshold": 100, "rate": 10}],
		"equipment": [{"threshold": 50, "rate": 5}]
	}`

	schedule, err := f.ParseDiscounts([]byte(data))

	require.NoError(t, err)
	assert.Equal(t, []pricing.Tier{{Threshold: 100, Rate: 10}, {Threshold: 500, Rate: 15}}, schedule[pricing.AnyCategory])
	assert.Equal(t, 5.0, schedule.RateFor("equipment", 60))
	assert.Equal(t, 10.0, schedule.RateFor("material", 120))
}

func TestParseDiscounts_Rejects(t *testing.T) {
	f := New()

	_, err := f.ParseDiscounts([]byte(`{"*": [{"threshold": 10, "rate": 150}]}`))
	assert.Error(t, err, "rate above 100")

	_, err = f.ParseDiscounts([]byte(`{"*": [{"threshold": -1, "rate": 5}]}`))
	assert.Error(t, err, "negative threshold")

	_, err = f.ParseDiscounts([]byte(`[1, 2]`))
	assert.Error(t, err)
}

// =============================================================================
// INVENTORY GENERATION
// =============================================================================

func TestGenerateInventory_SameSeedSameCatalog(t *testing.T) {
	supplies := DefaultSupplies()

	a := GenerateInventory(supplies, 0.4, 137)
	b := GenerateInventory(supplies, 0.4, 137)
	c := GenerateInventory(supplies, 0.4, 138)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerateInventory_CoverageAndRanges(t *testing.T) {
	supplies := DefaultSupplies()

	entries := GenerateInventory(supplies, 0.5, 42)

	assert.Len(t, entries, int(float64(len(supplies))*0.5))
	byName := make(map[string]SupplyItem, len(supplies))
	for _, s := range supplies {
		byName[s.ItemName] = s
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		supply, ok := byName[e.ItemName]
		require.True(t, ok, "unknown item %q", e.ItemName)
		assert.False(t, seen[e.ItemName], "item %q selected twice", e.ItemName)
		seen[e.ItemName] = true

		assert.Equal(t, supply.Category, e.Category)
		assert.Equal(t, supply.UnitPrice, e.BuyUnitPrice)
		assert.GreaterOrEqual(t, e.SellUnitPrice, roundCents(supply.UnitPrice*minMarkup))
		assert.LessOrEqual(t, e.SellUnitPrice, roundCents(supply.UnitPrice*maxMarkup))
		assert.GreaterOrEqual(t, e.CurrentStock, minStock)
		assert.Less(t, e.CurrentStock, maxStock)
		assert.GreaterOrEqual(t, e.MinStockLevel, minStockLevel)
		assert.Less(t, e.MinStockLevel, maxStockLevel)
	}
}

func TestGenerateInventory_CoverageBounds(t *testing.T) {
	supplies := DefaultSupplies()

	assert.Empty(t, GenerateInventory(supplies, 0, 1))
	assert.Len(t, GenerateInventory(supplies, 1, 1), len(supplies))
	assert.Len(t, GenerateInventory(supplies, 3, 1), len(supplies))
	assert.Empty(t, GenerateInventory(nil, 1, 1))
}

// =============================================================================
// SEEDING
// =============================================================================

func TestSeed_WritesCatalogAndOpeningStock(t *testing.T) {
	// GIVEN: A store holding an old dataset
	mem := store.NewMemory()
	ctx := context.Background()
	_, err := mem.Append(ctx, ledger.Transaction{ItemName: "Old", Kind: ledger.KindIntake, Units: 1, OccurredOn: OpeningDate})
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()

	entries := []ledger.CatalogEntry{
		{ItemName: "Widget", Category: "material", BuyUnitPrice: 2, SellUnitPrice: 3.4, CurrentStock: 10},
		{ItemName: "Gadget", Category: "equipment", BuyUnitPrice: 10, SellUnitPrice: 17, CurrentStock: 3},
	}

	// WHEN: Seeding
	require.NoError(t, Seed(ctx, mem, entries, logger))

	// THEN: Only the new catalog and one intake per entry remain
	catalog, err := mem.ListCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, catalog)

	snaps := ledger.NewSnapshotEngine(mem, mem, 1000)
	levels, err := snaps.AllStockAsOf(ctx, OpeningDate)
	require.NoError(t, err)
	assert.Len(t, levels, 2)
	assert.Equal(t, 10, levels["Widget"].Stock)
	assert.Equal(t, 3, levels["Gadget"].Stock)

	cash, err := snaps.CashBalanceAsOf(ctx, OpeningDate)
	require.NoError(t, err)
	assert.Equal(t, 1000.0-20-30, cash)

	before, err := snaps.CashBalanceAsOf(ctx, OpeningDate.AddDays(-1))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, before)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "inventory seeded", hook.LastEntry().Message)
}

func TestSeed_GeneratedInventoryIsReproducible(t *testing.T) {
	ctx := context.Background()
	snapshot := func() map[string]ledger.StockLevel {
		mem := store.NewMemory()
		require.NoError(t, Seed(ctx, mem, GenerateInventory(DefaultSupplies(), 1, 137), nil))
		levels, err := ledger.NewSnapshotEngine(mem, mem, 50000).AllStockAsOf(ctx, OpeningDate)
		require.NoError(t, err)
		return levels
	}

	assert.Equal(t, snapshot(), snapshot())
}
