/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Engine values are float64 sums with no intermediate rounding. DTOs round
  money to cents on the way out (money()) and never feed rounded values
  back into the engine.

VALIDATION:
  Request types carry go-playground/validator tags, checked in handlers
  before anything reaches the ledger.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/supply-ledger/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// RecordTransactionRequest records a stock intake or a sale.
type RecordTransactionRequest struct {
	ItemName        string  `json:"item_name" validate:"required"`
	TransactionType string  `json:"transaction_type" validate:"required"`
	Units           int     `json:"units" validate:"gt=0"`
	Price           float64 `json:"price" validate:"gte=0"` // Total price
	Date            string  `json:"date" validate:"required"`
}

// TransactionDTO represents a ledger row in API responses.
type TransactionDTO struct {
	ID              int64   `json:"id"`
	ItemName        string  `json:"item_name"`
	TransactionType string  `json:"transaction_type"`
	Units           int     `json:"units"`
	Price           float64 `json:"price"`
	Date            string  `json:"date"`
	OccurredAt      string  `json:"occurred_at,omitempty"`
}

// StockDTO is a single-item stock level.
type StockDTO struct {
	ItemName     string `json:"item_name"`
	AsOf         string `json:"as_of"`
	CurrentStock int    `json:"current_stock"`
}

// InventoryItemDTO is one row of the inventory snapshot.
type InventoryItemDTO struct {
	Stock         int     `json:"stock"`
	BuyUnitPrice  float64 `json:"buy_unit_price"`
	SellUnitPrice float64 `json:"sell_unit_price"`
	Category      string  `json:"category"`
}

// InventoryDTO is the inventory snapshot keyed by item name.
type InventoryDTO struct {
	AsOf  string                      `json:"as_of"`
	Items map[string]InventoryItemDTO `json:"items"`
}

// CashDTO is the cash balance at a date.
type CashDTO struct {
	AsOf        string  `json:"as_of"`
	CashBalance float64 `json:"cash_balance"`
}

// InventoryLineDTO is a valuation line of the financial report.
type InventoryLineDTO struct {
	ItemName         string  `json:"item_name"`
	Stock            int     `json:"stock"`
	BuyUnitPrice     float64 `json:"buy_unit_price"`
	SellUnitPrice    float64 `json:"sell_unit_price"`
	Value            float64 `json:"value"`
	EstimatedRevenue float64 `json:"estimated_revenue"`
}

// TopSellerDTO is a top-selling product line.
type TopSellerDTO struct {
	ItemName     string  `json:"item_name"`
	TotalUnits   int     `json:"total_units"`
	TotalRevenue float64 `json:"total_revenue"`
}

// FinancialReportDTO is the financial report.
type FinancialReportDTO struct {
	AsOf                      string             `json:"as_of_date"`
	CashBalance               float64            `json:"cash_balance"`
	InventoryValue            float64            `json:"inventory_value"`
	EstimatedInventoryRevenue float64            `json:"estimated_inventory_revenue"`
	TotalAssets               float64            `json:"total_assets"`
	InventorySummary          []InventoryLineDTO `json:"inventory_summary"`
	TopSellingProducts        []TopSellerDTO     `json:"top_selling_products"`
}

// CatalogEntryDTO represents a catalog row.
type CatalogEntryDTO struct {
	ItemName      string  `json:"item_name"`
	Category      string  `json:"category"`
	BuyUnitPrice  float64 `json:"buy_unit_price"`
	SellUnitPrice float64 `json:"sell_unit_price"`
	CurrentStock  int     `json:"current_stock"`
	MinStockLevel int     `json:"min_stock_level"`
}

// DeliveryEstimateDTO is a supplier delivery estimate.
type DeliveryEstimateDTO struct {
	Start        string `json:"start"`
	Quantity     int    `json:"quantity"`
	LeadDays     int    `json:"lead_days"`
	DeliveryDate string `json:"delivery_date"`
}

// DiscountDTO is the discount applicable to an order line.
type DiscountDTO struct {
	Category        string  `json:"category"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discount_percent"`
}

// ScenarioDTO describes a demo dataset.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// money rounds to cents for presentation.
func money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:              int64(tx.ID),
		ItemName:        tx.ItemName,
		TransactionType: string(tx.Kind),
		Units:           tx.Units,
		Price:           money(tx.Amount),
		Date:            tx.OccurredOn.String(),
	}
	if !tx.OccurredAt.IsZero() {
		dto.OccurredAt = tx.OccurredAt.Format(time.RFC3339)
	}
	return dto
}

func toCatalogEntryDTO(e ledger.CatalogEntry) CatalogEntryDTO {
	return CatalogEntryDTO{
		ItemName:      e.ItemName,
		Category:      e.Category,
		BuyUnitPrice:  e.BuyUnitPrice,
		SellUnitPrice: e.SellUnitPrice,
		CurrentStock:  e.CurrentStock,
		MinStockLevel: e.MinStockLevel,
	}
}

func toFinancialReportDTO(r *ledger.FinancialReport) FinancialReportDTO {
	dto := FinancialReportDTO{
		AsOf:                      r.AsOf.String(),
		CashBalance:               money(r.CashBalance),
		InventoryValue:            money(r.InventoryValue),
		EstimatedInventoryRevenue: money(r.EstimatedInventoryRevenue),
		TotalAssets:               money(r.TotalAssets),
		InventorySummary:          make([]InventoryLineDTO, 0, len(r.InventorySummary)),
		TopSellingProducts:        make([]TopSellerDTO, 0, len(r.TopSellingProducts)),
	}
	for _, line := range r.InventorySummary {
		dto.InventorySummary = append(dto.InventorySummary, InventoryLineDTO{
			ItemName:         line.ItemName,
			Stock:            line.Stock,
			BuyUnitPrice:     line.BuyUnitPrice,
			SellUnitPrice:    line.SellUnitPrice,
			Value:            money(line.Value),
			EstimatedRevenue: money(line.EstimatedRevenue),
		})
	}
	for _, ts := range r.TopSellingProducts {
		dto.TopSellingProducts = append(dto.TopSellingProducts, TopSellerDTO{
			ItemName:     ts.ItemName,
			TotalUnits:   ts.TotalUnits,
			TotalRevenue: money(ts.TotalRevenue),
		})
	}
	return dto
}
