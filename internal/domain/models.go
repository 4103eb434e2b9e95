// internal/domain/models.go
package domain

import (
	"strings"
	"time"
)

// UnknownID is the placeholder the source sheets use for identifiers that
// could not be derived. Records carrying it are kept, but attribution skips it.
const UnknownID = "Unknown"

// OrderRecord is the canonical shape of one order-sheet row after
// normalization. DesignerID/RAndDID are empty when the SKU did not yield them.
type OrderRecord struct {
	Date       *time.Time `json:"date"`
	OrderID    string     `json:"orderId"`
	StoreID    string     `json:"storeId"`
	SKU        string     `json:"sku"`
	DesignerID string     `json:"designerId"`
	RAndDID    string     `json:"rAndDId"`
}

// RevenueRecord is one statement/transaction row reduced to its USD amount.
type RevenueRecord struct {
	Date    *time.Time `json:"date"`
	OrderID string     `json:"orderId"`
	StoreID string     `json:"storeId"`
	Amount  float64    `json:"amount"`
}

// CostRecord is one fulfillment-cost row.
type CostRecord struct {
	Date    *time.Time `json:"date"`
	OrderID string     `json:"orderId"`
	StoreID string     `json:"storeId"`
	Cost    float64    `json:"cost"`
}

// ProfitRecord joins revenue and cost for a single order. Profit is rounded
// to 2 decimals when the record is built and never recomputed downstream.
type ProfitRecord struct {
	OrderID    string     `json:"orderId"`
	StoreID    string     `json:"storeId"`
	Date       *time.Time `json:"date"`
	Revenue    float64    `json:"revenue"`
	Cost       float64    `json:"cost"`
	Profit     float64    `json:"profit"`
	DesignerID string     `json:"designerId"`
	RAndDID    string     `json:"rAndDId"`
	SKU        string     `json:"sku"`
}

// ProfitMap accumulates total profit per stakeholder identifier.
type ProfitMap map[string]float64

// ChannelResult is what every channel exposes to the cross-channel aggregator.
type ChannelResult struct {
	DesignerProfit ProfitMap      `json:"designerProfit"`
	RDProfit       ProfitMap      `json:"rdProfit"`
	TotalRecords   int            `json:"totalRecords"`
	ProfitData     []ProfitRecord `json:"profitData,omitempty"`
}

// CustomOrderRecord is one task-tracker row flagging an order for the
// designer profit-doubling bonus.
type CustomOrderRecord struct {
	Date       *time.Time `json:"date"`
	TaskName   string     `json:"taskName"`
	DesignerID string     `json:"designerId"`
	OrderID    string     `json:"orderId"`
}

// Aggregate is the merged cross-channel report for one month.
type Aggregate struct {
	DesignerProfit  ProfitMap           `json:"designerProfit"`
	RDProfit        ProfitMap           `json:"rdProfit"`
	PlatformSummary map[Channel]float64 `json:"platformSummary"`
	TotalProfit     float64             `json:"totalProfit"`
	Month           int                 `json:"month"`
	Year            int                 `json:"year"`
}

// KPITarget is one row of the target table.
type KPITarget struct {
	Month    int     `json:"month" db:"month"`
	Year     int     `json:"year" db:"year"`
	PIC      string  `json:"pic" db:"pic"`
	Position string  `json:"position" db:"position"`
	Target   float64 `json:"target" db:"target"`
}

// KPIResult is one row of the final KPI report.
type KPIResult struct {
	PIC      string  `json:"PIC"`
	PICKey   string  `json:"PIC_Key"`
	Position string  `json:"Position"`
	Profit   float64 `json:"Profit"`
	Target   float64 `json:"Target"`
	KPI      string  `json:"KPI"`
}

// SellerTotal is a supplemental per-seller summary (label reports).
type SellerTotal struct {
	Seller      string  `json:"seller"`
	TotalRev    float64 `json:"totalRev"`
	TotalCost   float64 `json:"totalCost,omitempty"`
	TotalProfit float64 `json:"totalProfit"`
}

// StaffTotal is a supplemental per-staff-code profit summary.
type StaffTotal struct {
	Month  int     `json:"month"`
	Year   int     `json:"year"`
	Sales  string  `json:"sales"`
	Profit float64 `json:"profit"`
}

// NormalizeID trims and uppercases a stakeholder identifier; the Unknown
// placeholder and blanks map to the empty string.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.EqualFold(id, UnknownID) {
		return ""
	}
	return strings.ToUpper(id)
}

// SplitSKU derives the designer and R&D identifiers from a SKU. The first
// `-`-separated segment is the designer, the second is R&D; anything without
// at least two segments yields Unknown for both. Identifiers containing `-`
// are not supported.
func SplitSKU(sku string) (designerID, rAndDID string) {
	designerID, rAndDID = UnknownID, UnknownID
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return
	}
	parts := strings.Split(sku, "-")
	if len(parts) < 2 {
		return
	}
	if parts[0] != "" {
		designerID = parts[0]
	}
	if parts[1] != "" {
		rAndDID = parts[1]
	}
	return
}
