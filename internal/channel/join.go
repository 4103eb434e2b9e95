// internal/channel/join.go
package channel

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
)

func orderKey(o domain.OrderRecord) string { return o.OrderID }

func orderStoreKey(o domain.OrderRecord) string { return o.OrderID + "|" + o.StoreID }

// joinOrders builds the channel's profit records with the order records as
// the authoritative side: every order yields exactly one record, a missing
// revenue or cost match defaults to 0, and both missing is logged.
// feePerOrder is folded into each order's revenue before the profit is
// computed, so profit stays round2(revenue - cost).
func joinOrders(orders []domain.OrderRecord, revenue, cost map[string]float64, key func(domain.OrderRecord) string, feePerOrder float64) []domain.ProfitRecord {
	out := make([]domain.ProfitRecord, 0, len(orders))
	for _, o := range orders {
		k := key(o)
		rev, revOK := revenue[k]
		c, costOK := cost[k]
		if !revOK && !costOK {
			log.Warn().Str("order", o.OrderID).Str("store", o.StoreID).
				Msg("no revenue or cost match for order")
		}
		rev += feePerOrder

		out = append(out, domain.ProfitRecord{
			OrderID:    o.OrderID,
			StoreID:    o.StoreID,
			Date:       o.Date,
			Revenue:    rev,
			Cost:       c,
			Profit:     normalize.Round2(rev - c),
			DesignerID: o.DesignerID,
			RAndDID:    o.RAndDID,
			SKU:        o.SKU,
		})
	}
	return out
}

func orderRecord(date time.Time, orderID, storeID, sku string) domain.OrderRecord {
	designer, rd := domain.SplitSKU(sku)
	return domain.OrderRecord{
		Date:       &date,
		OrderID:    orderID,
		StoreID:    storeID,
		SKU:        sku,
		DesignerID: domain.NormalizeID(designer),
		RAndDID:    domain.NormalizeID(rd),
	}
}
