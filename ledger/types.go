/*
Package ledger provides the point-in-time stock and cash engine.

PURPOSE:
  Every stock level, cash balance and valuation figure is derived from an
  append-only log of dated transactions (stock intake and sales) joined with
  a static catalog of per-item prices. Nothing derived is ever stored: each
  query replays the log up to an inclusive cutoff date.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: An immutable ledger row (intake or sale of an item)
  - Kind: Which side of the ledger a transaction sits on
  - CatalogEntry: Static buy/sell prices and category of an item
  - Catalog: Name-indexed catalog with an explicit default lookup
  - StockLevel / FinancialReport: Derived, never persisted

DATA FLOW:
  Ledger + Catalog -> SnapshotEngine -> ValuationEngine -> FinancialReport

USAGE:
  l := ledger.NewLedger(store)
  id, err := l.Record(ctx, "Widget", ledger.KindIntake, 10, 100.0, "2025-01-01")

  snaps := ledger.NewSnapshotEngine(store, store, 50000)
  cash, err := snaps.CashBalanceAsOf(ctx, ledger.MustParseDate("2025-01-01"))

SEE ALSO:
  - ledger.go: Append-only write path
  - snapshot.go: Stock and cash aggregation
  - valuation.go: Financial report
*/
package ledger

import (
	"strings"
	"time"
)

// =============================================================================
// TRANSACTION - Immutable ledger row
// =============================================================================

type TransactionID int64

type Kind string

const (
	KindIntake Kind = "stock_orders" // Stock bought from a supplier
	KindSale   Kind = "sales"        // Stock sold to a customer
)

// ParseKind accepts the stored values and their short aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindIntake), "intake":
		return KindIntake, nil
	case string(KindSale), "sale":
		return KindSale, nil
	}
	return "", &KindError{Kind: s}
}

func (k Kind) Valid() bool { return k == KindIntake || k == KindSale }

// Transaction records units of an item entering or leaving stock, with the
// total price paid or received.
type Transaction struct {
	ID         TransactionID
	ItemName   string
	Kind       Kind
	Units      int
	Amount     float64   // Total price, not unit price
	OccurredOn Date      // Cutoff key
	OccurredAt time.Time // Full instant as supplied by the caller
}

// signedUnits is the stock delta of the transaction.
func (tx Transaction) signedUnits() int {
	if tx.Kind == KindSale {
		return -tx.Units
	}
	return tx.Units
}

// =============================================================================
// CATALOG - Static reference data per item
// =============================================================================

// UnknownCategory is reported for items that appear in the ledger but have
// no catalog row.
const UnknownCategory = "unknown"

type CatalogEntry struct {
	ItemName      string
	Category      string
	BuyUnitPrice  float64
	SellUnitPrice float64
	CurrentStock  int // Seed-time only
	MinStockLevel int // Seed-time only
}

// Catalog indexes catalog entries by item name.
type Catalog map[string]CatalogEntry

func NewCatalog(entries []CatalogEntry) Catalog {
	c := make(Catalog, len(entries))
	for _, e := range entries {
		c[e.ItemName] = e
	}
	return c
}

func (c Catalog) Lookup(name string) (CatalogEntry, bool) {
	e, ok := c[name]
	return e, ok
}

// LookupOrDefault synthesizes zero prices and the unknown category for items
// without a catalog row.
func (c Catalog) LookupOrDefault(name string) CatalogEntry {
	if e, ok := c[name]; ok {
		return e
	}
	return CatalogEntry{ItemName: name, Category: UnknownCategory}
}

// =============================================================================
// DERIVED VIEWS - Computed per call, never stored
// =============================================================================

// StockLevel is one row of the joined inventory snapshot.
type StockLevel struct {
	Stock         int
	BuyUnitPrice  float64
	SellUnitPrice float64
	Category      string
}

// InventoryLine is the per-item valuation row of a financial report.
type InventoryLine struct {
	ItemName         string
	Stock            int
	BuyUnitPrice     float64
	SellUnitPrice    float64
	Value            float64
	EstimatedRevenue float64
}

// TopSeller aggregates sales of one item up to the report date.
type TopSeller struct {
	ItemName     string
	TotalUnits   int
	TotalRevenue float64
}

type FinancialReport struct {
	AsOf                      Date
	CashBalance               float64
	InventoryValue            float64
	EstimatedInventoryRevenue float64
	TotalAssets               float64
	InventorySummary          []InventoryLine
	TopSellingProducts        []TopSeller
}
