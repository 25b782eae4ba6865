/*
handlers.go - HTTP API handlers for the supply ledger

ENDPOINTS:
  Ledger:
    POST   /api/transactions             Record a stock intake or sale
    GET    /api/transactions?as_of=      Transactions up to a date

  Snapshots:
    GET    /api/stock?item=&as_of=       Stock of one item
    GET    /api/inventory?as_of=         Positive-stock inventory snapshot
    GET    /api/cash?as_of=              Cash balance

  Reports:
    GET    /api/reports/financial?as_of= Financial report

  Catalog:
    GET    /api/catalog                  Catalog entries
    GET    /api/catalog/price?item=      Buy/sell price of one item

  Pricing:
    GET    /api/delivery?start=&quantity=     Supplier delivery estimate
    GET    /api/discounts?category=&quantity= Discount rate

DATES:
  as_of accepts YYYY-MM-DD or an ISO timestamp and defaults to today.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, bad kind or date
  - 404: Item not in catalog
  - 503: Store unavailable
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo dataset loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/warp/supply-ledger/factory"
	"github.com/warp/supply-ledger/ledger"
	"github.com/warp/supply-ledger/pricing"
	"golang.org/x/time/rate"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options configures a Handler. Zero values fall back to defaults.
type Options struct {
	InitialCash float64
	Discounts   pricing.DiscountSchedule
	Supplies    []factory.SupplyItem
	Seed        int64
	Coverage    float64
	Logger      logrus.FieldLogger

	// WriteRate is the sustained write requests per second; 0 disables
	// throttling. WriteBurst defaults to 1.
	WriteRate  float64
	WriteBurst int
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     factory.SeedTarget
	Ledger    *ledger.Ledger
	Snapshots *ledger.SnapshotEngine
	Valuation *ledger.ValuationEngine
	Discounts pricing.DiscountSchedule
	Delivery  pricing.Estimator
	Metrics   *Metrics
	Logger    logrus.FieldLogger

	// WriteLimit throttles POST endpoints; nil means unlimited.
	WriteLimit *rate.Limiter

	supplies []factory.SupplyItem
	seed     int64
	coverage float64
	validate *validator.Validate

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wires the engines around store.
func NewHandler(store factory.SeedTarget, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	discounts := opts.Discounts
	if discounts == nil {
		discounts = pricing.DefaultDiscountSchedule()
	}
	supplies := opts.Supplies
	if supplies == nil {
		supplies = factory.DefaultSupplies()
	}
	coverage := opts.Coverage
	if coverage == 0 {
		coverage = 1.0
	}

	var limiter *rate.Limiter
	if opts.WriteRate > 0 {
		burst := opts.WriteBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.WriteRate), burst)
	}

	snapshots := ledger.NewSnapshotEngine(store, store, opts.InitialCash)
	return &Handler{
		Store:      store,
		Ledger:     &ledger.Ledger{Store: store, Logger: logger},
		Snapshots:  snapshots,
		Valuation:  ledger.NewValuationEngine(snapshots),
		Discounts:  discounts,
		Delivery:   pricing.Estimator{Logger: logger},
		Metrics:    NewMetrics(),
		Logger:     logger,
		WriteLimit: limiter,
		supplies:   supplies,
		seed:       opts.Seed,
		coverage:   coverage,
		validate:   validator.New(),
	}
}

// =============================================================================
// LEDGER ENDPOINTS
// =============================================================================

// RecordTransaction appends one transaction.
func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	kind, err := ledger.ParseKind(req.TransactionType)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	id, err := h.Ledger.Record(r.Context(), req.ItemName, kind, req.Units, req.Price, req.Date)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.Metrics.transactionRecorded(string(kind))

	day, _ := ledger.ParseDate(req.Date)
	writeJSON(w, http.StatusCreated, TransactionDTO{
		ID:              int64(id),
		ItemName:        req.ItemName,
		TransactionType: string(kind),
		Units:           req.Units,
		Price:           money(req.Price),
		Date:            day.String(),
	})
}

// ListTransactions returns the ledger up to as_of.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfParam(w, r)
	if !ok {
		return
	}
	txs, err := h.Ledger.Transactions(r.Context(), asOf)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	dtos := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, toTransactionDTO(tx))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SNAPSHOT ENDPOINTS
// =============================================================================

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	item := r.URL.Query().Get("item")
	if item == "" {
		writeError(w, http.StatusBadRequest, "item is required", nil)
		return
	}
	asOf, ok := asOfParam(w, r)
	if !ok {
		return
	}
	stock, err := h.Snapshots.StockAsOf(r.Context(), item, asOf)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StockDTO{ItemName: item, AsOf: asOf.String(), CurrentStock: stock})
}

func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfParam(w, r)
	if !ok {
		return
	}
	levels, err := h.Snapshots.AllStockAsOf(r.Context(), asOf)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	dto := InventoryDTO{AsOf: asOf.String(), Items: make(map[string]InventoryItemDTO, len(levels))}
	for name, l := range levels {
		dto.Items[name] = InventoryItemDTO{
			Stock:         l.Stock,
			BuyUnitPrice:  l.BuyUnitPrice,
			SellUnitPrice: l.SellUnitPrice,
			Category:      l.Category,
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) GetCashBalance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfParam(w, r)
	if !ok {
		return
	}
	cash, err := h.Snapshots.CashBalanceAsOf(r.Context(), asOf)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CashDTO{AsOf: asOf.String(), CashBalance: money(cash)})
}

// =============================================================================
// REPORT ENDPOINTS
// =============================================================================

func (h *Handler) GetFinancialReport(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfParam(w, r)
	if !ok {
		return
	}
	report, err := h.Valuation.FinancialReport(r.Context(), asOf)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFinancialReportDTO(report))
}

// =============================================================================
// CATALOG ENDPOINTS
// =============================================================================

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListCatalog(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	dtos := make([]CatalogEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toCatalogEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUnitPrice returns an item's catalog row, 404 when it has none.
func (h *Handler) GetUnitPrice(w http.ResponseWriter, r *http.Request) {
	item := r.URL.Query().Get("item")
	if item == "" {
		writeError(w, http.StatusBadRequest, "item is required", nil)
		return
	}
	entry, found, err := h.Store.CatalogEntry(r.Context(), item)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if !found {
		writeLedgerError(w, ledger.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toCatalogEntryDTO(entry))
}

// =============================================================================
// PRICING ENDPOINTS
// =============================================================================

// GetDeliveryEstimate never rejects the start date: an invalid one is
// replaced by today.
func (h *Handler) GetDeliveryEstimate(w http.ResponseWriter, r *http.Request) {
	quantity, ok := quantityParam(w, r)
	if !ok {
		return
	}
	start := r.URL.Query().Get("start")
	writeJSON(w, http.StatusOK, DeliveryEstimateDTO{
		Start:        start,
		Quantity:     quantity,
		LeadDays:     pricing.DeliveryLeadDays(quantity),
		DeliveryDate: h.Delivery.DeliveryDate(start, quantity),
	})
}

func (h *Handler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	quantity, ok := quantityParam(w, r)
	if !ok {
		return
	}
	category := r.URL.Query().Get("category")
	writeJSON(w, http.StatusOK, DiscountDTO{
		Category:        category,
		Quantity:        quantity,
		DiscountPercent: h.Discounts.RateFor(category, quantity),
	})
}

// =============================================================================
// HEALTH
// =============================================================================

type pinger interface {
	Ping(ctx context.Context) error
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeLedgerError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func asOfParam(w http.ResponseWriter, r *http.Request) (ledger.Date, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return ledger.Today(), true
	}
	d, err := ledger.ParseDate(raw)
	if err != nil {
		writeLedgerError(w, err)
		return ledger.Date{}, false
	}
	return d, true
}

func quantityParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "quantity must be an integer", err)
		return 0, false
	}
	return quantity, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeLedgerError maps engine errors to HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidKind):
		writeError(w, http.StatusBadRequest, "invalid transaction type", err)
	case errors.Is(err, ledger.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid date", err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "item not found", err)
	case errors.Is(err, ledger.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

// sortedItemNames is used where map output must be stable (scenario logs).
func sortedItemNames(levels map[string]ledger.StockLevel) []string {
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
