/*
Package sqlite provides a SQLite-backed implementation of the ledger storage
interfaces.

INTERFACES IMPLEMENTED:
  ledger.Store:        Transaction persistence (append-only)
  ledger.CatalogStore: Catalog reads
  ledger.SeedStore:    Catalog (re)initialization

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the transactions table
  - No DELETE statements on the transactions table, except Reset, which
    only seeding calls before building a fresh dataset

KEY TABLES:
  transactions: Immutable ledger, one row per stock intake or sale
  inventory:    Catalog, one row per item (buy/sell price, category)

  Both tables share item_name as the join key.

DATES:
  occurred_on is stored as YYYY-MM-DD so the cutoff comparison
  "occurred_on <= ?" is a plain string comparison with an inclusive bound.
  occurred_at keeps the full instant the caller supplied.

ERRORS:
  Every database/sql failure is returned wrapped in ledger.ErrStoreUnavailable.

CONCURRENCY:
  Uses sync.RWMutex: one writer, many readers.

USAGE:
  store, err := sqlite.New("./data/polaris.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  l := ledger.NewLedger(store)

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/supply-ledger/ledger"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// NewFromDB wraps an existing handle without migrating it.
func NewFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return ledger.Unavailable(s.db.PingContext(ctx))
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Transactions (append-only ledger)
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_name TEXT NOT NULL,
		transaction_type TEXT NOT NULL,
		units INTEGER NOT NULL,
		price REAL NOT NULL,
		occurred_on TEXT NOT NULL,
		occurred_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Cutoff scans (hot path)
	CREATE INDEX IF NOT EXISTS idx_transactions_occurred_on
		ON transactions(occurred_on);
	CREATE INDEX IF NOT EXISTS idx_transactions_item_occurred_on
		ON transactions(item_name, occurred_on);

	-- Catalog
	CREATE TABLE IF NOT EXISTS inventory (
		item_name TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		buy_unit_price REAL NOT NULL,
		sell_unit_price REAL NOT NULL,
		current_stock INTEGER NOT NULL DEFAULT 0,
		min_stock_level INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTION STORE (ledger.Store interface)
// =============================================================================

// Append adds a transaction to the ledger and returns its row id.
func (s *Store) Append(ctx context.Context, tx ledger.Transaction) (ledger.TransactionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO transactions
		(item_name, transaction_type, units, price, occurred_on, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.ItemName,
		string(tx.Kind),
		tx.Units,
		tx.Amount,
		tx.OccurredOn.String(),
		tx.OccurredAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, ledger.Unavailable(fmt.Errorf("failed to append transaction: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, ledger.Unavailable(fmt.Errorf("failed to read transaction id: %w", err))
	}
	return ledger.TransactionID(id), nil
}

// LoadUntil returns all transactions dated on or before asOf.
func (s *Store) LoadUntil(ctx context.Context, asOf ledger.Date) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, item_name, transaction_type, units, price, occurred_on, occurred_at
		FROM transactions
		WHERE occurred_on <= ?
		ORDER BY id ASC
	`

	return s.queryTransactions(ctx, query, asOf.String())
}

// LoadItemUntil returns one item's transactions dated on or before asOf.
func (s *Store) LoadItemUntil(ctx context.Context, itemName string, asOf ledger.Date) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, item_name, transaction_type, units, price, occurred_on, occurred_at
		FROM transactions
		WHERE item_name = ? AND occurred_on <= ?
		ORDER BY id ASC
	`

	return s.queryTransactions(ctx, query, itemName, asOf.String())
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledger.Unavailable(fmt.Errorf("failed to query transactions: %w", err))
	}
	defer rows.Close()

	var transactions []ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, ledger.Unavailable(rows.Err())
}

func scanTransaction(rows *sql.Rows) (ledger.Transaction, error) {
	var (
		tx         ledger.Transaction
		kind       string
		occurredOn string
		occurredAt string
	)

	err := rows.Scan(&tx.ID, &tx.ItemName, &kind, &tx.Units, &tx.Amount, &occurredOn, &occurredAt)
	if err != nil {
		return tx, ledger.Unavailable(fmt.Errorf("failed to scan transaction: %w", err))
	}

	tx.Kind = ledger.Kind(kind)
	day, err := ledger.ParseDate(occurredOn)
	if err != nil {
		return tx, fmt.Errorf("transaction %d: %w", tx.ID, err)
	}
	tx.OccurredOn = day
	tx.OccurredAt, _ = time.Parse(time.RFC3339Nano, occurredAt)

	return tx, nil
}

// =============================================================================
// CATALOG STORE (ledger.CatalogStore / ledger.SeedStore)
// =============================================================================

// ListCatalog returns the catalog in the order it was saved.
func (s *Store) ListCatalog(ctx context.Context) ([]ledger.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_name, category, buy_unit_price, sell_unit_price, current_stock, min_stock_level
		FROM inventory
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, ledger.Unavailable(fmt.Errorf("failed to query catalog: %w", err))
	}
	defer rows.Close()

	var entries []ledger.CatalogEntry
	for rows.Next() {
		var e ledger.CatalogEntry
		if err := rows.Scan(&e.ItemName, &e.Category, &e.BuyUnitPrice, &e.SellUnitPrice, &e.CurrentStock, &e.MinStockLevel); err != nil {
			return nil, ledger.Unavailable(fmt.Errorf("failed to scan catalog entry: %w", err))
		}
		entries = append(entries, e)
	}
	return entries, ledger.Unavailable(rows.Err())
}

// CatalogEntry returns the entry for name; a missing row is not an error.
func (s *Store) CatalogEntry(ctx context.Context, name string) (ledger.CatalogEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e ledger.CatalogEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT item_name, category, buy_unit_price, sell_unit_price, current_stock, min_stock_level
		FROM inventory
		WHERE item_name = ?
	`, name).Scan(&e.ItemName, &e.Category, &e.BuyUnitPrice, &e.SellUnitPrice, &e.CurrentStock, &e.MinStockLevel)

	if err == sql.ErrNoRows {
		return ledger.CatalogEntry{}, false, nil
	}
	if err != nil {
		return ledger.CatalogEntry{}, false, ledger.Unavailable(fmt.Errorf("failed to get catalog entry: %w", err))
	}
	return e, true, nil
}

// SaveCatalog replaces the catalog atomically.
func (s *Store) SaveCatalog(ctx context.Context, entries []ledger.CatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Unavailable(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM inventory"); err != nil {
		return ledger.Unavailable(fmt.Errorf("failed to clear catalog: %w", err))
	}

	query := `
		INSERT INTO inventory
		(item_name, category, buy_unit_price, sell_unit_price, current_stock, min_stock_level, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_name) DO UPDATE SET
			category = excluded.category,
			buy_unit_price = excluded.buy_unit_price,
			sell_unit_price = excluded.sell_unit_price,
			current_stock = excluded.current_stock,
			min_stock_level = excluded.min_stock_level
	`
	for i, e := range entries {
		_, err := sqlTx.ExecContext(ctx, query,
			e.ItemName, e.Category, e.BuyUnitPrice, e.SellUnitPrice, e.CurrentStock, e.MinStockLevel, i,
		)
		if err != nil {
			return ledger.Unavailable(fmt.Errorf("failed to save catalog entry %q: %w", e.ItemName, err))
		}
	}

	return ledger.Unavailable(sqlTx.Commit())
}

// Reset clears all data (for seeding only). Transaction ids keep
// increasing across resets.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"transactions", "inventory"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return ledger.Unavailable(fmt.Errorf("failed to clear %s: %w", table, err))
		}
	}
	return nil
}
