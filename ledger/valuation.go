package ledger

import (
	"context"
	"sort"
)

// TopSellerLimit caps FinancialReport.TopSellingProducts.
const TopSellerLimit = 5

// =============================================================================
// VALUATION ENGINE - Financial report as of a date
// =============================================================================

// ValuationEngine values inventory at catalog prices on top of the
// SnapshotEngine.
//
// Unlike AllStockAsOf, the report walks the whole catalog: items with zero
// or negative stock still get a summary line and contribute to the totals.
type ValuationEngine struct {
	Snapshots *SnapshotEngine
}

func NewValuationEngine(snapshots *SnapshotEngine) *ValuationEngine {
	return &ValuationEngine{Snapshots: snapshots}
}

// FinancialReport builds the report for asOf. Any store failure aborts the
// report; a partially zeroed report is never returned.
func (v *ValuationEngine) FinancialReport(ctx context.Context, asOf Date) (*FinancialReport, error) {
	s := v.Snapshots

	cash, err := s.CashBalanceAsOf(ctx, asOf)
	if err != nil {
		return nil, err
	}

	entries, err := s.Catalog.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}

	report := &FinancialReport{
		AsOf:             asOf,
		CashBalance:      cash,
		InventorySummary: make([]InventoryLine, 0, len(entries)),
	}
	for _, entry := range entries {
		stock, err := s.StockAsOf(ctx, entry.ItemName, asOf)
		if err != nil {
			return nil, err
		}
		value := float64(stock) * entry.BuyUnitPrice
		revenue := float64(stock) * entry.SellUnitPrice
		report.InventoryValue += value
		report.EstimatedInventoryRevenue += revenue
		report.InventorySummary = append(report.InventorySummary, InventoryLine{
			ItemName:         entry.ItemName,
			Stock:            stock,
			BuyUnitPrice:     entry.BuyUnitPrice,
			SellUnitPrice:    entry.SellUnitPrice,
			Value:            value,
			EstimatedRevenue: revenue,
		})
	}
	report.TotalAssets = cash + report.InventoryValue

	top, err := v.TopSellingProducts(ctx, asOf, TopSellerLimit)
	if err != nil {
		return nil, err
	}
	report.TopSellingProducts = top
	return report, nil
}

// TopSellingProducts ranks items by cumulative sale amount up to asOf,
// highest first. Equal revenue is ordered by item name.
func (v *ValuationEngine) TopSellingProducts(ctx context.Context, asOf Date, limit int) ([]TopSeller, error) {
	txs, err := v.Snapshots.Store.LoadUntil(ctx, asOf)
	if err != nil {
		return nil, err
	}

	byItem := make(map[string]*TopSeller)
	for _, tx := range txs {
		if tx.Kind != KindSale || tx.ItemName == "" {
			continue
		}
		ts, ok := byItem[tx.ItemName]
		if !ok {
			ts = &TopSeller{ItemName: tx.ItemName}
			byItem[tx.ItemName] = ts
		}
		ts.TotalUnits += tx.Units
		ts.TotalRevenue += tx.Amount
	}

	sellers := make([]TopSeller, 0, len(byItem))
	for _, ts := range byItem {
		sellers = append(sellers, *ts)
	}
	sort.Slice(sellers, func(i, j int) bool {
		if sellers[i].TotalRevenue != sellers[j].TotalRevenue {
			return sellers[i].TotalRevenue > sellers[j].TotalRevenue
		}
		return sellers[i].ItemName < sellers[j].ItemName
	})
	if limit >= 0 && len(sellers) > limit {
		sellers = sellers[:limit]
	}
	return sellers, nil
}
