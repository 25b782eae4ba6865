/*
ledger.go - Append-only transaction log

PURPOSE:
  The Ledger is the single source of truth for stock and cash. Stock intake
  and sales are recorded here once and never edited; every balance is
  recomputed from these rows.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete.
  2. IMMUTABLE: Once written, a transaction cannot be modified.
  3. ORDERED IDS: Each Record call yields an ID greater than all previous ones.

VALIDATION:
  Record rejects an unknown kind (ErrInvalidKind) and an unparseable date
  (ErrInvalidDate). Units and amount are stored as given, including zero or
  negative values.

SEE ALSO:
  - store.go: Low-level persistence interface
  - snapshot.go: Reads derived from the ledger
*/
package ledger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Ledger is the write side of the engine.
type Ledger struct {
	Store  Store
	Logger logrus.FieldLogger
}

func NewLedger(store Store) *Ledger {
	return &Ledger{Store: store, Logger: logrus.StandardLogger()}
}

// Record appends one transaction. occurredOn may be a date (YYYY-MM-DD) or
// an ISO timestamp; it is normalized before storage.
func (l *Ledger) Record(ctx context.Context, itemName string, kind Kind, units int, amount float64, occurredOn string) (TransactionID, error) {
	if !kind.Valid() {
		return 0, &KindError{Kind: string(kind)}
	}
	day, at, err := parseTimestamp(occurredOn)
	if err != nil {
		return 0, err
	}
	return l.append(ctx, Transaction{
		ItemName:   itemName,
		Kind:       kind,
		Units:      units,
		Amount:     amount,
		OccurredOn: day,
		OccurredAt: at.UTC(),
	})
}

// RecordAt is Record for callers that already hold a time.Time.
func (l *Ledger) RecordAt(ctx context.Context, itemName string, kind Kind, units int, amount float64, at time.Time) (TransactionID, error) {
	if !kind.Valid() {
		return 0, &KindError{Kind: string(kind)}
	}
	return l.append(ctx, Transaction{
		ItemName:   itemName,
		Kind:       kind,
		Units:      units,
		Amount:     amount,
		OccurredOn: DateOf(at),
		OccurredAt: at.UTC(),
	})
}

func (l *Ledger) append(ctx context.Context, tx Transaction) (TransactionID, error) {
	id, err := l.Store.Append(ctx, tx)
	if err != nil {
		l.Logger.WithFields(logrus.Fields{
			"item": tx.ItemName,
			"kind": tx.Kind,
		}).WithError(err).Error("failed to record transaction")
		return 0, err
	}
	l.Logger.WithFields(logrus.Fields{
		"id":          id,
		"item":        tx.ItemName,
		"kind":        tx.Kind,
		"units":       tx.Units,
		"amount":      tx.Amount,
		"occurred_on": tx.OccurredOn.String(),
	}).Debug("transaction recorded")
	return id, nil
}

// Transactions returns the log up to and including asOf. Read-only.
func (l *Ledger) Transactions(ctx context.Context, asOf Date) ([]Transaction, error) {
	return l.Store.LoadUntil(ctx, asOf)
}
