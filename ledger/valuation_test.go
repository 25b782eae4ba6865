package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/supply-ledger/ledger"
	"github.com/warp/supply-ledger/ledger/store"
)

// =============================================================================
// FINANCIAL REPORT
// =============================================================================

func TestFinancialReport_SingleItem(t *testing.T) {
	// GIVEN: One item with stock 5 at buy 2.0 / sell 3.0, and 100.0 cash
	// THEN: inventory 10.0, estimated revenue 15.0, total assets 110.0

	f := newFixture(t, 110.0,
		ledger.CatalogEntry{ItemName: "Widget", Category: "material", BuyUnitPrice: 2.0, SellUnitPrice: 3.0},
	)
	f.record(t, "Widget", ledger.KindIntake, 5, 10.0, "2025-01-01")

	report, err := f.valuation.FinancialReport(context.Background(), day("2025-01-01"))
	require.NoError(t, err)

	assert.Equal(t, day("2025-01-01"), report.AsOf)
	assert.Equal(t, 100.0, report.CashBalance)
	assert.Equal(t, 10.0, report.InventoryValue)
	assert.Equal(t, 15.0, report.EstimatedInventoryRevenue)
	assert.Equal(t, 110.0, report.TotalAssets)
	require.Len(t, report.InventorySummary, 1)
	assert.Equal(t, ledger.InventoryLine{
		ItemName:         "Widget",
		Stock:            5,
		BuyUnitPrice:     2.0,
		SellUnitPrice:    3.0,
		Value:            10.0,
		EstimatedRevenue: 15.0,
	}, report.InventorySummary[0])
	assert.Empty(t, report.TopSellingProducts)
}

func TestFinancialReport_IncludesZeroAndNegativeStock(t *testing.T) {
	// Unlike AllStockAsOf, the report covers every catalog item.
	f := newFixture(t, initialCash,
		ledger.CatalogEntry{ItemName: "Widget", BuyUnitPrice: 2, SellUnitPrice: 3},
		ledger.CatalogEntry{ItemName: "Gadget", BuyUnitPrice: 10, SellUnitPrice: 15},
		ledger.CatalogEntry{ItemName: "Untouched", BuyUnitPrice: 1, SellUnitPrice: 1},
	)
	f.record(t, "Widget", ledger.KindIntake, 4, 8, "2025-01-01")
	f.record(t, "Gadget", ledger.KindSale, 2, 30, "2025-01-01")

	report, err := f.valuation.FinancialReport(context.Background(), day("2025-01-01"))
	require.NoError(t, err)

	require.Len(t, report.InventorySummary, 3)
	assert.Equal(t, "Widget", report.InventorySummary[0].ItemName, "catalog order is kept")
	assert.Equal(t, -2, report.InventorySummary[1].Stock)
	assert.Equal(t, -20.0, report.InventorySummary[1].Value)
	assert.Equal(t, 0, report.InventorySummary[2].Stock)

	assert.Equal(t, 8.0-20.0, report.InventoryValue)
	assert.Equal(t, 12.0-30.0, report.EstimatedInventoryRevenue)
	assert.Equal(t, report.CashBalance+report.InventoryValue, report.TotalAssets)

	levels, err := f.snapshots.AllStockAsOf(context.Background(), day("2025-01-01"))
	require.NoError(t, err)
	assert.Len(t, levels, 1, "snapshot view keeps only positive stock")
}

func TestFinancialReport_LedgerItemsOutsideCatalogAreNotValued(t *testing.T) {
	f := newFixture(t, initialCash,
		ledger.CatalogEntry{ItemName: "Widget", BuyUnitPrice: 2, SellUnitPrice: 3},
	)
	f.record(t, "Stray", ledger.KindIntake, 100, 100, "2025-01-01")

	report, err := f.valuation.FinancialReport(context.Background(), day("2025-01-01"))
	require.NoError(t, err)

	assert.Len(t, report.InventorySummary, 1)
	assert.Zero(t, report.InventoryValue)
	assert.Equal(t, initialCash-100, report.CashBalance)
}

// =============================================================================
// TOP SELLERS
// =============================================================================

func TestTopSellingProducts_LimitedAndSorted(t *testing.T) {
	f := newFixture(t, initialCash)
	revenue := map[string]float64{
		"A": 10, "B": 70, "C": 30, "D": 50, "E": 20, "F": 60, "G": 40,
	}
	for item, amount := range revenue {
		f.record(t, item, ledger.KindSale, 1, amount, "2025-02-01")
	}
	f.record(t, "A", ledger.KindSale, 2, 100, "2025-02-02") // A totals 110
	f.record(t, "Z", ledger.KindIntake, 1000, 9999, "2025-02-01")

	report, err := f.valuation.FinancialReport(context.Background(), day("2025-02-28"))
	require.NoError(t, err)

	require.Len(t, report.TopSellingProducts, ledger.TopSellerLimit)
	var names []string
	for _, ts := range report.TopSellingProducts {
		names = append(names, ts.ItemName)
	}
	assert.Equal(t, []string{"A", "B", "F", "D", "G"}, names)
	assert.Equal(t, ledger.TopSeller{ItemName: "A", TotalUnits: 3, TotalRevenue: 110}, report.TopSellingProducts[0])
}

func TestTopSellingProducts_ExcludesLaterSales(t *testing.T) {
	f := newFixture(t, initialCash)
	f.record(t, "Early", ledger.KindSale, 1, 10, "2025-03-01")
	f.record(t, "Late", ledger.KindSale, 1, 1000, "2025-03-02")

	top, err := f.valuation.TopSellingProducts(context.Background(), day("2025-03-01"), ledger.TopSellerLimit)
	require.NoError(t, err)

	require.Len(t, top, 1)
	assert.Equal(t, "Early", top[0].ItemName)
}

func TestTopSellingProducts_TiesOrderedByName(t *testing.T) {
	f := newFixture(t, initialCash)
	f.record(t, "Beta", ledger.KindSale, 1, 25, "2025-03-01")
	f.record(t, "Alpha", ledger.KindSale, 1, 25, "2025-03-01")

	top, err := f.valuation.TopSellingProducts(context.Background(), day("2025-03-01"), 5)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "Alpha", top[0].ItemName)
	assert.Equal(t, "Beta", top[1].ItemName)
}

// =============================================================================
// STORE FAILURES
// =============================================================================

// unreachableCatalog fails every catalog read.
type unreachableCatalog struct {
	*store.Memory
}

func (u unreachableCatalog) ListCatalog(context.Context) ([]ledger.CatalogEntry, error) {
	return nil, ledger.Unavailable(errors.New("connection refused"))
}

// unreachableLedger fails every transaction load.
type unreachableLedger struct {
	*store.Memory
}

func (u unreachableLedger) LoadUntil(context.Context, ledger.Date) ([]ledger.Transaction, error) {
	return nil, ledger.Unavailable(errors.New("disk I/O error"))
}

func TestFinancialReport_StoreUnavailable(t *testing.T) {
	mem := store.NewMemory()

	tests := []struct {
		name   string
		engine *ledger.ValuationEngine
	}{
		{
			name:   "catalog unreachable",
			engine: ledger.NewValuationEngine(ledger.NewSnapshotEngine(mem, unreachableCatalog{mem}, initialCash)),
		},
		{
			name:   "ledger unreachable",
			engine: ledger.NewValuationEngine(ledger.NewSnapshotEngine(unreachableLedger{mem}, mem, initialCash)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := tt.engine.FinancialReport(context.Background(), day("2025-01-01"))
			assert.Nil(t, report, "no zeroed report on failure")
			assert.ErrorIs(t, err, ledger.ErrStoreUnavailable)
		})
	}
}

func TestUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("database is locked")

	err := ledger.Unavailable(cause)

	assert.ErrorIs(t, err, ledger.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, ledger.Unavailable(err), "already wrapped errors pass through")
	assert.NoError(t, ledger.Unavailable(nil))
	assert.Contains(t, fmt.Sprint(err), "database is locked")
}
