package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/supply-ledger/ledger"
)

// OpeningDate is the date of the opening stock intake written by Seed.
var OpeningDate = ledger.NewDate(2025, time.January, 1)

// SeedTarget is a store that can be reset and written by Seed.
type SeedTarget interface {
	ledger.Store
	ledger.SeedStore
}

// Seed resets store, saves entries as the catalog and records one opening
// intake per entry: CurrentStock units at CurrentStock * BuyUnitPrice.
//
// NOTE: Seed drops all existing transactions. Only call it on an empty or
// disposable store.
func Seed(ctx context.Context, store SeedTarget, entries []ledger.CatalogEntry, logger logrus.FieldLogger) error {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	if err := store.SaveCatalog(ctx, entries); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	l := &ledger.Ledger{Store: store, Logger: logger}
	for _, e := range entries {
		amount := float64(e.CurrentStock) * e.BuyUnitPrice
		if _, err := l.RecordAt(ctx, e.ItemName, ledger.KindIntake, e.CurrentStock, amount, OpeningDate.Time()); err != nil {
			return fmt.Errorf("opening stock for %q: %w", e.ItemName, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"items":        len(entries),
		"opening_date": OpeningDate.String(),
	}).Info("inventory seeded")
	return nil
}
