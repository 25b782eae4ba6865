/*
scenarios.go - Demo dataset loaders

AVAILABLE SCENARIOS:
  empty:         No catalog, no transactions
  baseline:      Generated catalog with opening stock on 2025-01-01
  sample-sales:  Baseline plus sales spread over Jan-Jul 2025

HOW SCENARIOS WORK:
 1. Reset the store (clear catalog and ledger)
 2. Generate the catalog from the configured supplies and seed
 3. Record opening stock intake
 4. Optionally record sales

USAGE VIA API:
	POST /api/scenarios/load
	{"scenario_id": "sample-sales"}

NOTE:
	Scenarios reset the database. Only use in development/demo environments.
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/warp/supply-ledger/factory"
	"github.com/warp/supply-ledger/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "empty",
		Name:        "Empty",
		Description: "No catalog and no transactions; cash equals the starting balance",
	},
	{
		ID:          "baseline",
		Name:        "Baseline Inventory",
		Description: "Seeded catalog with opening stock bought on 2025-01-01",
	},
	{
		ID:          "sample-sales",
		Name:        "Sample Sales",
		Description: "Baseline inventory plus customer sales from January to July 2025",
	},
}

// sampleSale is a customer order in the sample-sales scenario.
type sampleSale struct {
	item      string
	quantity  int
	unitPrice float64
	date      string
}

var sampleSales = []sampleSale{
	// January 2025
	{"Thermal insulation sheet", 50, 2.75, "2025-01-05"},
	{"Carbon mesh panel", 25, 5.00, "2025-01-05"},
	{"EVA helmet light", 100, 6.00, "2025-01-08"},

	// February 2025
	{"Thermal insulation sheet", 150, 2.75, "2025-02-10"},
	{"Portable power node", 75, 18.00, "2025-02-10"},
	{"Cryo-storage unit", 200, 35.00, "2025-02-15"},
	{"Polymer containment bag", 500, 0.90, "2025-02-15"},

	// March 2025
	{"Reflective heatfoil wrap", 30, 3.20, "2025-03-05"},
	{"Aerogel sheet", 40, 6.00, "2025-03-05"},
	{"Mission data tablet", 150, 22.00, "2025-03-12"},

	// July 2025
	{"Thermal insulation sheet", 200, 2.75, "2025-07-20"},
	{"Carbon mesh panel", 80, 5.00, "2025-07-20"},
	{"Ion charge kit", 300, 25.00, "2025-07-25"},
	{"Multi-layer thermal blanket", 25, 14.00, "2025-07-25"},
	{"Biometric ID badge", 500, 2.50, "2025-07-30"},
}

// ScenarioResultDTO summarizes a loaded scenario.
type ScenarioResultDTO struct {
	ScenarioID   string   `json:"scenario_id"`
	CatalogItems int      `json:"catalog_items"`
	Transactions int      `json:"transactions"`
	InStock      []string `json:"in_stock"`
}

// =============================================================================
// HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	result, err := h.LoadScenarioByID(r.Context(), req.ScenarioID)
	if err != nil {
		if _, known := findScenario(req.ScenarioID); !known {
			writeError(w, http.StatusBadRequest, "unknown scenario", err)
			return
		}
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ResetDatabase clears catalog and ledger.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	result, err := h.LoadScenarioByID(r.Context(), "empty")
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// LoadScenarioByID resets the store and loads the named scenario.
func (h *Handler) LoadScenarioByID(ctx context.Context, id string) (*ScenarioResultDTO, error) {
	if _, ok := findScenario(id); !ok {
		return nil, fmt.Errorf("unknown scenario %q", id)
	}

	var entries []ledger.CatalogEntry
	if id != "empty" {
		entries = factory.GenerateInventory(h.supplies, h.coverage, h.seed)
	}
	if err := factory.Seed(ctx, h.Store, entries, h.Logger); err != nil {
		return nil, err
	}
	recorded := len(entries)

	if id == "sample-sales" {
		for _, s := range sampleSales {
			total := float64(s.quantity) * s.unitPrice
			if _, err := h.Ledger.Record(ctx, s.item, ledger.KindSale, s.quantity, total, s.date); err != nil {
				return nil, fmt.Errorf("sample sale of %q: %w", s.item, err)
			}
			recorded++
		}
	}

	h.currentScenario = id

	levels, err := h.Snapshots.AllStockAsOf(ctx, ledger.Today())
	if err != nil {
		return nil, err
	}
	h.Logger.WithFields(logrus.Fields{
		"scenario":     id,
		"transactions": recorded,
		"in_stock":     len(levels),
	}).Info("scenario loaded")

	return &ScenarioResultDTO{
		ScenarioID:   id,
		CatalogItems: len(entries),
		Transactions: recorded,
		InStock:      sortedItemNames(levels),
	}, nil
}

func findScenario(id string) (ScenarioDTO, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return ScenarioDTO{}, false
}
