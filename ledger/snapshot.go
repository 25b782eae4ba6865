package ledger

import "context"

// =============================================================================
// SNAPSHOT ENGINE - Stock and cash as of a date
// =============================================================================

// SnapshotEngine derives point-in-time stock and cash from the ledger.
// Results are computed on every call and never cached; a call that overlaps
// an insert may observe the log before or after it.
//
// The cutoff is inclusive: every transaction dated on asOf counts.
type SnapshotEngine struct {
	Store       Store
	Catalog     CatalogStore
	InitialCash float64
}

func NewSnapshotEngine(store Store, catalog CatalogStore, initialCash float64) *SnapshotEngine {
	return &SnapshotEngine{Store: store, Catalog: catalog, InitialCash: initialCash}
}

// StockAsOf returns intake units minus sold units for the item. An item with
// no transactions has stock 0.
func (e *SnapshotEngine) StockAsOf(ctx context.Context, itemName string, asOf Date) (int, error) {
	txs, err := e.Store.LoadItemUntil(ctx, itemName, asOf)
	if err != nil {
		return 0, err
	}
	stock := 0
	for _, tx := range txs {
		stock += tx.signedUnits()
	}
	return stock, nil
}

// AllStockAsOf returns the inventory snapshot: derived stock per item joined
// with catalog attributes. Only items with strictly positive stock appear.
// Items missing from the catalog are kept with zero prices and the unknown
// category.
func (e *SnapshotEngine) AllStockAsOf(ctx context.Context, asOf Date) (map[string]StockLevel, error) {
	txs, err := e.Store.LoadUntil(ctx, asOf)
	if err != nil {
		return nil, err
	}
	entries, err := e.Catalog.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	catalog := NewCatalog(entries)

	stock := make(map[string]int)
	for _, tx := range txs {
		stock[tx.ItemName] += tx.signedUnits()
	}

	result := make(map[string]StockLevel, len(stock))
	for name, units := range stock {
		if units <= 0 {
			continue
		}
		entry := catalog.LookupOrDefault(name)
		result[name] = StockLevel{
			Stock:         units,
			BuyUnitPrice:  entry.BuyUnitPrice,
			SellUnitPrice: entry.SellUnitPrice,
			Category:      entry.Category,
		}
	}
	return result, nil
}

// CashBalanceAsOf returns initial cash plus sale amounts minus intake
// amounts. With no transactions it is exactly the initial cash.
func (e *SnapshotEngine) CashBalanceAsOf(ctx context.Context, asOf Date) (float64, error) {
	txs, err := e.Store.LoadUntil(ctx, asOf)
	if err != nil {
		return 0, err
	}
	var sales, purchases float64
	for _, tx := range txs {
		switch tx.Kind {
		case KindSale:
			sales += tx.Amount
		case KindIntake:
			purchases += tx.Amount
		}
	}
	return e.InitialCash + sales - purchases, nil
}
