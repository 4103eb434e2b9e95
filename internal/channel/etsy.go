// internal/channel/etsy.go
package channel

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
	"github.com/sellerops/profitkpi/internal/sheet"
)

const etsyOrderCol = "Order ID (sale, refund)"

var (
	etsyStatementSchema = sheet.Schema{
		Name:     "etsy statement",
		DateCol:  "Date",
		Required: []string{"Date", "Type", etsyOrderCol},
	}
	// The ledger variant keeps fee lines that carry no order reference.
	etsyLedgerSchema = sheet.Schema{
		Name:     "etsy ledger",
		DateCol:  "Date",
		Required: []string{"Date", "Type"},
	}
	etsyOrderSchema = sheet.Schema{
		Name:    "etsy order",
		DateCol: "Sale Date",
	}
)

// Etsy computes the channel's per-order profit records for one shop and one
// period. Statement amounts carry currency markers and are converted to USD
// with the configured rates. When ledger is true revenue is built from every
// statement line instead of the per-order sale totals (see ledgerRevenue).
func Etsy(statement, fulfillment, orders []sheet.Row, month, year int, fx normalize.FXRates, ledger bool) ([]domain.ProfitRecord, error) {
	var (
		revenue map[string]float64
		err     error
	)
	if ledger {
		revenue, err = ledgerRevenue(statement, month, year, fx)
	} else {
		revenue, err = statementRevenue(statement, month, year, fx)
	}
	if err != nil {
		return nil, err
	}

	if len(fulfillment) == 0 {
		return nil, fmt.Errorf("etsy fulfillment: %w", sheet.ErrEmptySheet)
	}
	cost := make(map[string]float64)
	for _, r := range fulfillment {
		key := strings.TrimSpace(r.Get("OrderName")) + "|" + strings.TrimSpace(r.Get("Store ID"))
		cost[key] = normalize.ParseNumber(r.Get("NetPrice"))
	}

	orderRows, _, err := sheet.Filter(orders, etsyOrderSchema, month, year)
	if err != nil {
		return nil, err
	}
	records := make([]domain.OrderRecord, 0, len(orderRows))
	for _, r := range orderRows {
		records = append(records, orderRecord(
			r.Date,
			strings.TrimSpace(r.Get("Order ID")),
			strings.TrimSpace(r.Get("Store ID")),
			strings.TrimSpace(r.Get("SKU")),
		))
	}

	return joinOrders(records, revenue, cost, orderStoreKey, 0), nil
}

// statementRevenue reads the per-order sale totals: one USD amount per
// (order, store), later rows overwriting earlier ones.
func statementRevenue(statement []sheet.Row, month, year int, fx normalize.FXRates) (map[string]float64, error) {
	rows, _, err := sheet.Filter(statement, etsyStatementSchema, month, year)
	if err != nil {
		return nil, err
	}

	revenue := make(map[string]float64)
	for _, r := range rows {
		key := strings.TrimSpace(r.Get(etsyOrderCol)) + "|" + strings.TrimSpace(r.Get("Store ID"))
		revenue[key] = normalize.Round2(statementUSD(r.Row, fx))
	}
	return revenue, nil
}

// ledgerRevenue aggregates every statement line per (order, store): Sale and
// Refund lines add their signed amount, any other line type is a fee and
// reduces revenue. Fee lines without an order reference accumulate per store
// and are then spread evenly across that store's resolved orders.
func ledgerRevenue(statement []sheet.Row, month, year int, fx normalize.FXRates) (map[string]float64, error) {
	rows, _, err := sheet.Filter(statement, etsyLedgerSchema, month, year)
	if err != nil {
		return nil, err
	}

	revenue := make(map[string]float64)
	storeFees := make(map[string]float64)
	storeOrders := make(map[string][]string)

	for _, r := range rows {
		usd := statementUSD(r.Row, fx)
		store := strings.TrimSpace(r.Get("Store ID"))
		order := strings.TrimSpace(r.Get(etsyOrderCol))
		typ := strings.TrimSpace(r.Get("Type"))

		switch {
		case strings.EqualFold(typ, "Sale") || strings.EqualFold(typ, "Refund"):
			if order == "" {
				continue
			}
			key := order + "|" + store
			if _, seen := revenue[key]; !seen {
				storeOrders[store] = append(storeOrders[store], key)
			}
			revenue[key] += usd
		default:
			fee := -math.Abs(usd)
			if order == "" {
				storeFees[store] += fee
				continue
			}
			key := order + "|" + store
			if _, seen := revenue[key]; !seen {
				storeOrders[store] = append(storeOrders[store], key)
			}
			revenue[key] += fee
		}
	}

	for store, fee := range storeFees {
		keys := storeOrders[store]
		if len(keys) == 0 {
			log.Warn().Str("store", store).Float64("fee", fee).
				Msg("unattributed fees with no orders to spread over")
			continue
		}
		share := fee / float64(len(keys))
		for _, key := range keys {
			revenue[key] += share
		}
	}

	for key, v := range revenue {
		revenue[key] = normalize.Round2(v)
	}
	return revenue, nil
}

// statementUSD finds the amount column, sanitizes the cell and converts it
// to USD. The exact "Amount" header wins; otherwise the first header
// containing "amount" in sorted column order is used, so rows with several
// amount-like columns (Amount, Refund amount) always resolve the same way.
func statementUSD(row sheet.Row, fx normalize.FXRates) float64 {
	headers := make([]string, 0, len(row))
	for k := range row {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	col := ""
	for _, k := range headers {
		if strings.TrimSpace(k) == "Amount" {
			col = k
			break
		}
	}
	if col == "" {
		for _, k := range headers {
			if strings.Contains(strings.ToLower(k), "amount") {
				col = k
				break
			}
		}
	}
	if col == "" {
		col = "Amount"
	}
	amt := normalize.SanitizeAmount(row.Get(col))
	if amt.Currency == normalize.CurrencyUnknown && amt.Raw != "" {
		log.Warn().Str("raw", amt.Raw).Msg("unrecognized currency marker")
	}
	return fx.ToUSD(amt.Value, amt.Currency)
}
