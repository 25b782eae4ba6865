/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Build the logrus logger
  3. Open the SQLite store
  4. Load supply list and discount table (built-in or JSON files)
  5. Optionally seed the store
  6. Start the valuation report scheduler
  7. Start the HTTP server with graceful shutdown

EXAMPLES:
  # Run with file database, seeding a fresh inventory
  ./server -db="./data/polaris.db" -seed-on-start

  # Run with in-memory database
  ./server -db=":memory:" -seed-on-start -log-format=json

SEE ALSO:
  - config/config.go: Flags and environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/supply-ledger/api"
	"github.com/warp/supply-ledger/config"
	"github.com/warp/supply-ledger/factory"
	"github.com/warp/supply-ledger/pricing"
	"github.com/warp/supply-ledger/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		logrus.Fatalf("Failed to configure logger: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	f := factory.New()
	supplies := factory.DefaultSupplies()
	if cfg.CatalogFile != "" {
		supplies, err = loadFile(cfg.CatalogFile, f.ParseSupplies)
		if err != nil {
			logger.Fatalf("Failed to load catalog: %v", err)
		}
	}
	discounts := pricing.DefaultDiscountSchedule()
	if cfg.DiscountFile != "" {
		discounts, err = loadFile(cfg.DiscountFile, f.ParseDiscounts)
		if err != nil {
			logger.Fatalf("Failed to load discounts: %v", err)
		}
	}

	handler := api.NewHandler(store, api.Options{
		InitialCash: cfg.InitialCash,
		Discounts:   discounts,
		Supplies:    supplies,
		Seed:        cfg.Seed,
		Coverage:    cfg.Coverage,
		Logger:      logger,
		WriteRate:   cfg.WriteRate,
		WriteBurst:  cfg.WriteBurst,
	})

	if cfg.SeedOnStart {
		if _, err := handler.LoadScenarioByID(context.Background(), "baseline"); err != nil {
			logger.Fatalf("Failed to seed database: %v", err)
		}
	}

	scheduler := api.NewReportScheduler(handler)
	scheduler.CheckInterval = cfg.ReportInterval
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "db": cfg.DBPath}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server stopped")
}

func loadFile[T any](path string, parse func([]byte) (T, error)) (T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		var zero T
		return zero, err
	}
	return parse(data)
}
