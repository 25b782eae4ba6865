/*
scheduler.go - Periodic valuation snapshot

PURPOSE:
  Periodically builds the financial report as of today and publishes it as
  Prometheus gauges, so dashboards can follow cash, inventory value and
  low-stock items without polling the report endpoint.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each run is a read-only FinancialReport; nothing is written to the store
  - Items under their catalog min_stock_level are counted and logged
  - A failed run is logged and retried on the next tick

CONFIGURATION:
  - CheckInterval: How often to run (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReportScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GetFinancialReport (on-demand report)
  - metrics.go: Gauges updated here
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/supply-ledger/ledger"
)

// ReportScheduler refreshes the valuation gauges on a fixed interval.
type ReportScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	// Today is the report date of each run; defaults to ledger.Today.
	Today func() ledger.Date

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex // guards Start/Stop

	runMu   sync.Mutex // guards lastRun
	lastRun time.Time
}

// NewReportScheduler creates a new scheduler.
func NewReportScheduler(handler *Handler) *ReportScheduler {
	return &ReportScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Today:         ledger.Today,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (rs *ReportScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled || rs.CheckInterval <= 0 {
		rs.Handler.Logger.Info("report scheduler disabled")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	rs.Handler.Logger.WithField("interval", rs.CheckInterval.String()).Info("report scheduler started")
}

// Stop stops the scheduler and waits for a running check to finish.
func (rs *ReportScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Handler.Logger.Info("report scheduler stopped")
	}
}

func (rs *ReportScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.RunNow(context.Background())

	for {
		select {
		case <-rs.ticker.C:
			rs.RunNow(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// RunNow builds the report for today and updates the gauges. It returns the
// number of items under their minimum stock level.
func (rs *ReportScheduler) RunNow(ctx context.Context) (int, error) {
	h := rs.Handler
	asOf := rs.Today()
	log := h.Logger.WithField("as_of", asOf.String())

	report, err := h.Valuation.FinancialReport(ctx, asOf)
	if err != nil {
		log.WithError(err).Error("scheduled report failed")
		return 0, err
	}
	entries, err := h.Store.ListCatalog(ctx)
	if err != nil {
		log.WithError(err).Error("scheduled report failed")
		return 0, err
	}

	stock := make(map[string]int, len(report.InventorySummary))
	for _, line := range report.InventorySummary {
		stock[line.ItemName] = line.Stock
	}
	belowMin := 0
	for _, e := range entries {
		if stock[e.ItemName] < e.MinStockLevel {
			belowMin++
			log.WithFields(logrus.Fields{
				"item":      e.ItemName,
				"stock":     stock[e.ItemName],
				"min_stock": e.MinStockLevel,
			}).Warn("item below minimum stock")
		}
	}

	h.Metrics.observeReport(report, belowMin)

	rs.runMu.Lock()
	rs.lastRun = time.Now()
	rs.runMu.Unlock()

	log.WithFields(logrus.Fields{
		"cash_balance":    report.CashBalance,
		"inventory_value": report.InventoryValue,
		"total_assets":    report.TotalAssets,
		"below_min_stock": belowMin,
	}).Info("scheduled report published")
	return belowMin, nil
}

// LastRun returns when the last successful run finished, zero if none.
func (rs *ReportScheduler) LastRun() time.Time {
	rs.runMu.Lock()
	defer rs.runMu.Unlock()
	return rs.lastRun
}

// NextRunTime returns when the next scheduled run will occur.
func (rs *ReportScheduler) NextRunTime() time.Time {
	return rs.LastRun().Add(rs.CheckInterval)
}
