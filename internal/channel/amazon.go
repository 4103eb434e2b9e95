// internal/channel/amazon.go
package channel

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
	"github.com/sellerops/profitkpi/internal/sheet"
)

// Sentinel cell values that leak from the workbook's repeated headers.
var dateSentinels = []string{"Unknown", "last-updated-date"}

var (
	amazonStatementSchema = sheet.Schema{
		Name:      "amazon statement",
		DateCol:   "Date",
		Required:  []string{"Date", "Transaction type", "Order ID", "Total product charges"},
		Sentinels: map[string][]string{"Date": dateSentinels},
	}
	amazonFulfillmentSchema = sheet.Schema{
		Name:      "amazon fulfillment",
		DateCol:   "Date created",
		Sentinels: map[string][]string{"Date created": dateSentinels},
	}
	amazonOrderSchema = sheet.Schema{
		Name:    "amazon order",
		DateCol: "payments-date",
		Sentinels: map[string][]string{
			"payments-date": dateSentinels,
			"order-id":      {"amazon-order-id"},
			"sku":           {"url", "sku"},
		},
	}
)

// Amazon computes the channel's per-order profit records for one period.
//
// Statement rows with transaction type "Order" carry per-order revenue in the
// Total (USD) column. Every other statement row is a service charge; those
// totals form a fee pool that is spread evenly across the period's orders and
// folded into each order's revenue.
func Amazon(statement, fulfillment, orders []sheet.Row, month, year int) ([]domain.ProfitRecord, error) {
	stmtRows, _, err := sheet.Filter(statement, amazonStatementSchema, month, year)
	if err != nil {
		return nil, err
	}
	ffRows, _, err := sheet.Filter(fulfillment, amazonFulfillmentSchema, month, year)
	if err != nil {
		return nil, err
	}
	orderRows, _, err := sheet.Filter(orders, amazonOrderSchema, month, year)
	if err != nil {
		return nil, err
	}

	revenue := make(map[string]float64)
	var feePool float64
	for _, r := range stmtRows {
		total := normalize.ParseNumber(r.Get("Total (USD)"))
		if strings.EqualFold(strings.TrimSpace(r.Get("Transaction type")), "Order") {
			revenue[strings.TrimSpace(r.Get("Order ID"))] = total
		} else {
			feePool += total
		}
	}

	cost := make(map[string]float64)
	for _, r := range ffRows {
		cost[strings.TrimSpace(r.Get("Printify ID"))] = normalize.ParseNumber(r.Get("Total cost"))
	}

	records := make([]domain.OrderRecord, 0, len(orderRows))
	for _, r := range orderRows {
		records = append(records, orderRecord(
			r.Date,
			strings.TrimSpace(r.Get("order-id")),
			strings.TrimSpace(r.Get("Store ID")),
			strings.TrimSpace(r.Get("sku")),
		))
	}

	var feePerOrder float64
	if feePool != 0 && len(records) > 0 {
		feePerOrder = feePool / float64(len(records))
		log.Info().Float64("pool", feePool).Int("orders", len(records)).
			Msg("amazon service fees spread across orders")
	}

	return joinOrders(records, revenue, cost, orderKey, feePerOrder), nil
}
