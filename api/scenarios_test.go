/*
scenarios_test.go - Tests for demo scenarios and the report scheduler

PURPOSE:
	Tests that each scenario sets up the expected state:
	- Catalog is generated from the configured supplies
	- Opening stock is recorded on 2025-01-01
	- Sample sales feed the top sellers of the financial report

These tests double as integration tests over the SQLite store.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/supply-ledger/factory"
	"github.com/warp/supply-ledger/ledger"
)

func TestScenario_Baseline(t *testing.T) {
	// GIVEN: The baseline scenario with full coverage
	// WHEN: Loading the scenario
	// THEN: Every supply is in the catalog and in stock from 2025-01-01

	s := setupTestServer(t)
	ctx := context.Background()

	result, err := s.handler.LoadScenarioByID(ctx, "baseline")
	require.NoError(t, err)

	supplies := factory.DefaultSupplies()
	assert.Equal(t, "baseline", result.ScenarioID)
	assert.Equal(t, len(supplies), result.CatalogItems)
	assert.Equal(t, len(supplies), result.Transactions)
	assert.Len(t, result.InStock, len(supplies))
	assert.IsIncreasing(t, result.InStock)

	before, err := s.handler.Snapshots.AllStockAsOf(ctx, factory.OpeningDate.AddDays(-1))
	require.NoError(t, err)
	assert.Empty(t, before)

	entries, err := s.store.ListCatalog(ctx)
	require.NoError(t, err)
	var spent float64
	for _, e := range entries {
		stock, err := s.handler.Snapshots.StockAsOf(ctx, e.ItemName, factory.OpeningDate)
		require.NoError(t, err)
		assert.Equal(t, e.CurrentStock, stock, e.ItemName)
		spent += float64(e.CurrentStock) * e.BuyUnitPrice
	}

	cash, err := s.handler.Snapshots.CashBalanceAsOf(ctx, factory.OpeningDate)
	require.NoError(t, err)
	assert.InDelta(t, 50000-spent, cash, 1e-6)
}

func TestScenario_BaselineIsReproducible(t *testing.T) {
	ctx := context.Background()
	catalogOf := func() []ledger.CatalogEntry {
		s := setupTestServer(t)
		_, err := s.handler.LoadScenarioByID(ctx, "baseline")
		require.NoError(t, err)
		entries, err := s.store.ListCatalog(ctx)
		require.NoError(t, err)
		return entries
	}

	assert.Equal(t, catalogOf(), catalogOf())
}

func TestScenario_SampleSalesTopSellers(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	result, err := s.handler.LoadScenarioByID(ctx, "sample-sales")
	require.NoError(t, err)
	assert.Equal(t, result.CatalogItems+len(sampleSales), result.Transactions)

	names := func(asOf string) []string {
		report, err := s.handler.Valuation.FinancialReport(ctx, ledger.MustParseDate(asOf))
		require.NoError(t, err)
		var out []string
		for _, ts := range report.TopSellingProducts {
			out = append(out, ts.ItemName)
		}
		return out
	}

	assert.Equal(t, []string{
		"Cryo-storage unit",
		"Mission data tablet",
		"Portable power node",
		"EVA helmet light",
		"Thermal insulation sheet",
	}, names("2025-03-31"))

	assert.Equal(t, []string{
		"Ion charge kit",
		"Cryo-storage unit",
		"Mission data tablet",
		"Portable power node",
		"Biometric ID badge",
	}, names("2025-12-31"))

	assert.Empty(t, names("2025-01-04"))
}

func TestScenario_LoadAndResetOverHTTP(t *testing.T) {
	s := setupTestServer(t)

	list := decode[[]ScenarioDTO](t, s.do(t, http.MethodGet, "/api/scenarios", nil))
	assert.Len(t, list, len(scenarios))

	rec := s.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "sample-sales"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	current := decode[map[string]string](t, s.do(t, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "sample-sales", current["scenario_id"])

	report := decode[FinancialReportDTO](t, s.do(t, http.MethodGet, "/api/reports/financial?as_of=2025-12-31", nil))
	assert.Len(t, report.TopSellingProducts, ledger.TopSellerLimit)
	assert.Equal(t, 7500.0, report.TopSellingProducts[0].TotalRevenue)

	rec = s.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[ScenarioResultDTO](t, rec)
	assert.Equal(t, "empty", result.ScenarioID)
	assert.Empty(t, result.InStock)

	cash := decode[CashDTO](t, s.do(t, http.MethodGet, "/api/cash?as_of=2030-01-01", nil))
	assert.Equal(t, 50000.0, cash.CashBalance)
}

func TestScenario_Unknown(t *testing.T) {
	s := setupTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "moon-base"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/scenarios/load", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// REPORT SCHEDULER
// =============================================================================

func TestReportScheduler_RunNowPublishesGauges(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	require.NoError(t, s.store.SaveCatalog(ctx, []ledger.CatalogEntry{
		{ItemName: "Widget", BuyUnitPrice: 2, SellUnitPrice: 3, MinStockLevel: 3},
		{ItemName: "Gadget", BuyUnitPrice: 10, SellUnitPrice: 15, MinStockLevel: 1},
	}))
	s.record(t, "Widget", "stock_orders", 5, 10, "2025-01-01")
	s.record(t, "Widget", "sales", 3, 9, "2025-01-02")

	rs := NewReportScheduler(s.handler)
	rs.Today = func() ledger.Date { return ledger.MustParseDate("2025-01-02") }

	belowMin, err := rs.RunNow(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, belowMin, "Widget at 2 < 3 and Gadget at 0 < 1")
	assert.False(t, rs.LastRun().IsZero())

	body := s.do(t, http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, body, "ledger_cash_balance 49999")
	assert.Contains(t, body, "ledger_inventory_value 4")
	assert.Contains(t, body, "ledger_items_below_min_stock 2")
}

func TestReportScheduler_StoreFailure(t *testing.T) {
	s := setupTestServer(t)
	require.NoError(t, s.store.Close())

	rs := NewReportScheduler(s.handler)
	_, err := rs.RunNow(context.Background())

	assert.ErrorIs(t, err, ledger.ErrStoreUnavailable)
	assert.True(t, rs.LastRun().IsZero())
}

func TestReportScheduler_StartStop(t *testing.T) {
	s := setupTestServer(t)

	rs := NewReportScheduler(s.handler)
	rs.Start()
	rs.Stop()
	rs.Stop()

	disabled := NewReportScheduler(s.handler)
	disabled.CheckInterval = 0
	disabled.Start()
	disabled.Stop()
}
