/*
server.go - HTTP router and middleware configuration

ROUTER: chi

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     logrus request log (RequestLogger)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. Metrics:    Prometheus request counters and latency
  5. CORS:       Cross-origin requests for a dashboard frontend
  Write routes additionally pass WriteLimiter (429 when throttled).

ROUTE GROUPS:
  /api/transactions/*   Ledger writes and listing
  /api/stock, /api/inventory, /api/cash   Snapshots
  /api/reports/*        Financial report
  /api/catalog/*        Catalog and prices
  /api/delivery, /api/discounts           Pricing rules
  /api/scenarios/*      Demo datasets
  /healthz              Store reachability
  /metrics              Prometheus

SECURITY NOTE:
  No authentication middleware. All endpoints are public.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(h.Metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)
	r.Method("GET", "/metrics", h.Metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Ledger routes
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.With(WriteLimiter(h.WriteLimit)).Post("/", h.RecordTransaction)
		})

		// Snapshot routes
		r.Get("/stock", h.GetStock)
		r.Get("/inventory", h.GetInventory)
		r.Get("/cash", h.GetCashBalance)

		// Report routes
		r.Get("/reports/financial", h.GetFinancialReport)

		// Catalog routes
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.ListCatalog)
			r.Get("/price", h.GetUnitPrice)
		})

		// Pricing routes
		r.Get("/delivery", h.GetDeliveryEstimate)
		r.Get("/discounts", h.GetDiscount)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.With(WriteLimiter(h.WriteLimit)).Post("/load", h.LoadScenario)
			r.With(WriteLimiter(h.WriteLimit)).Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
