// Package store provides in-memory ledger.Store and ledger.SeedStore
// implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/supply-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	transactions []ledger.Transaction // ID order
	catalog      []ledger.CatalogEntry
	nextID       ledger.TransactionID
}

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// Append adds a single transaction. Append-only.
func (m *Memory) Append(_ context.Context, tx ledger.Transaction) (ledger.TransactionID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx.ID = m.nextID
	m.nextID++
	m.transactions = append(m.transactions, tx)
	return tx.ID, nil
}

func (m *Memory) LoadUntil(_ context.Context, asOf ledger.Date) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.Transaction
	for _, tx := range m.transactions {
		if tx.OccurredOn.BeforeOrEqual(asOf) {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (m *Memory) LoadItemUntil(_ context.Context, itemName string, asOf ledger.Date) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.Transaction
	for _, tx := range m.transactions {
		if tx.ItemName == itemName && tx.OccurredOn.BeforeOrEqual(asOf) {
			result = append(result, tx)
		}
	}
	return result, nil
}

// =============================================================================
// CATALOG
// =============================================================================

func (m *Memory) ListCatalog(_ context.Context) ([]ledger.CatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.CatalogEntry, len(m.catalog))
	copy(result, m.catalog)
	return result, nil
}

func (m *Memory) CatalogEntry(_ context.Context, name string) (ledger.CatalogEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.catalog {
		if e.ItemName == name {
			return e, true, nil
		}
	}
	return ledger.CatalogEntry{}, false, nil
}

// SaveCatalog replaces the catalog. A later entry with the same name
// replaces an earlier one, keeping the earlier position.
func (m *Memory) SaveCatalog(_ context.Context, entries []ledger.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog = make([]ledger.CatalogEntry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if i, ok := index[e.ItemName]; ok {
			m.catalog[i] = e
			continue
		}
		index[e.ItemName] = len(m.catalog)
		m.catalog = append(m.catalog, e)
	}
	return nil
}

// Reset clears transactions and catalog. IDs keep increasing across resets.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = nil
	m.catalog = nil
	return nil
}
