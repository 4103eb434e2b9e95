// internal/channel/web.go
package channel

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
	"github.com/sellerops/profitkpi/internal/sheet"
)

var (
	webOrderSchema = sheet.Schema{
		Name:    "web order",
		DateCol: "Date",
	}
	webCostSchema = sheet.Schema{
		Name:    "web cost",
		DateCol: "Date created",
	}
)

// Web computes the channel's per-order profit records for one period.
//
// Revenue lives on the order sheet itself (Net per confirmed order row).
// Cost merges two sources keyed by order: the web cost sheet's total cost,
// plus the fulfillment rows for seller MER where the cost is base + poly
// mailer + buying label. Orders whose merged cost is 0 fall back to revenue
// only. The order sheet carries no store column, so the join is on the order
// id alone.
func Web(orders, webCost, fulfillment []sheet.Row, month, year int) ([]domain.ProfitRecord, error) {
	orderRows, _, err := sheet.Filter(orders, webOrderSchema, month, year)
	if err != nil {
		return nil, err
	}
	cost, err := webTotalCost(webCost, fulfillment, month, year)
	if err != nil {
		return nil, err
	}

	var out []domain.ProfitRecord
	for _, r := range orderRows {
		if strings.TrimSpace(r.Get("Address Status")) != "Confirmed" {
			continue
		}
		rec := orderRecord(
			r.Date,
			strings.TrimSpace(r.Get("Custom Number")),
			"",
			strings.TrimSpace(r.Get("Item ID")),
		)
		rev := normalize.ParseNumber(r.Get("Net"))
		c, ok := cost[rec.OrderID]
		if rev == 0 && !ok {
			log.Warn().Str("order", rec.OrderID).Msg("no revenue or cost match for order")
		}

		out = append(out, domain.ProfitRecord{
			OrderID:    rec.OrderID,
			StoreID:    rec.StoreID,
			Date:       rec.Date,
			Revenue:    rev,
			Cost:       c,
			Profit:     normalize.Round2(rev - c),
			DesignerID: rec.DesignerID,
			RAndDID:    rec.RAndDID,
			SKU:        rec.SKU,
		})
	}
	return out, nil
}

// webTotalCost merges the two cost sources per order and drops orders whose
// merged total is 0.
func webTotalCost(webCost, fulfillment []sheet.Row, month, year int) (map[string]float64, error) {
	costRows, _, err := sheet.Filter(webCost, webCostSchema, month, year)
	if err != nil {
		return nil, err
	}
	if len(fulfillment) == 0 {
		return nil, fmt.Errorf("web fulfillment: %w", sheet.ErrEmptySheet)
	}

	total := make(map[string]float64)
	for _, r := range costRows {
		id := strings.TrimSpace(r.Get("Sales channel Number"))
		total[id] = normalize.ParseNumber(r.Get("Total cost"))
	}
	for _, r := range fulfillment {
		if strings.TrimSpace(r.Get("Seller")) != "MER" {
			continue
		}
		id := strings.TrimSpace(r.Get("Single Order ID"))
		total[id] += normalize.ParseNumber(r.Get("Basecost")) +
			normalize.ParseNumber(r.Get("Poly Mailer")) +
			normalize.ParseNumber(r.Get("Cost Buying Label"))
	}

	for id, c := range total {
		if c == 0 {
			delete(total, id)
		}
	}
	return total, nil
}
