package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warp/supply-ledger/ledger"
)

// Metrics owns a private registry so several routers (tests) can coexist
// in one process.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	transactionsTotal   *prometheus.CounterVec

	// Valuation gauges, refreshed by ReportScheduler
	cashBalance    prometheus.Gauge
	inventoryValue prometheus.Gauge
	totalAssets    prometheus.Gauge
	belowMinStock  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		transactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_recorded_total",
			Help: "Ledger transactions recorded, by kind.",
		}, []string{"kind"}),
		cashBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_cash_balance",
			Help: "Cash balance as of the last scheduled report.",
		}),
		inventoryValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_inventory_value",
			Help: "Inventory value at buy price as of the last scheduled report.",
		}),
		totalAssets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_total_assets",
			Help: "Cash plus inventory value as of the last scheduled report.",
		}),
		belowMinStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_items_below_min_stock",
			Help: "Catalog items whose stock is under their minimum stock level.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.transactionsTotal,
		m.cashBalance,
		m.inventoryValue,
		m.totalAssets,
		m.belowMinStock,
	)
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument records request count, latency and in-flight requests. The
// route label is the chi pattern, not the raw path.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, route, strconv.Itoa(status)}
		m.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(labels...).Inc()
	})
}

func (m *Metrics) transactionRecorded(kind string) {
	m.transactionsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) observeReport(r *ledger.FinancialReport, belowMin int) {
	m.cashBalance.Set(r.CashBalance)
	m.inventoryValue.Set(r.InventoryValue)
	m.totalAssets.Set(r.TotalAssets)
	m.belowMinStock.Set(float64(belowMin))
}
