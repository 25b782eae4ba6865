/*
store.go - Persistence interfaces for the ledger and the catalog

APPEND-ONLY CONTRACT:
  Store exposes exactly one write, Append. There is no Update or Delete
  on any interface in this package.

IDENTIFIERS:
  Append assigns the transaction ID. IDs are strictly increasing in insert
  order, and loads return rows in ID order so float sums are reproduced
  bit for bit on every call.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - ledger/store/memory.go: In-memory for testing

SEE ALSO:
  - ledger.go: Write path built on Store
  - snapshot.go: Read path built on Store and CatalogStore
*/
package ledger

import "context"

// Store persists ledger transactions.
type Store interface {
	// Append persists tx and returns the ID assigned to it. tx.ID is ignored.
	Append(ctx context.Context, tx Transaction) (TransactionID, error)

	// LoadUntil returns every transaction with OccurredOn <= asOf, by ID.
	LoadUntil(ctx context.Context, asOf Date) ([]Transaction, error)

	// LoadItemUntil is LoadUntil restricted to one item.
	LoadItemUntil(ctx context.Context, itemName string, asOf Date) ([]Transaction, error)
}

// CatalogStore reads the static catalog.
type CatalogStore interface {
	// ListCatalog returns all entries in insertion order.
	ListCatalog(ctx context.Context) ([]CatalogEntry, error)

	// CatalogEntry returns the entry for name. Absence is (zero, false, nil).
	CatalogEntry(ctx context.Context, name string) (CatalogEntry, bool, error)
}

// SeedStore is implemented by stores that can be (re)initialized with a
// catalog. Only seeding code uses it.
type SeedStore interface {
	CatalogStore

	// Reset drops all transactions and catalog rows.
	Reset(ctx context.Context) error

	// SaveCatalog replaces the catalog with entries.
	SaveCatalog(ctx context.Context, entries []CatalogEntry) error
}
