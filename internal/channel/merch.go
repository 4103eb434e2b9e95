// internal/channel/merch.go
package channel

import (
	"fmt"
	"strings"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
	"github.com/sellerops/profitkpi/internal/sheet"
)

var merchOrderSchema = sheet.Schema{
	Name:    "merch order",
	DateCol: "Date",
}

// Merch computes the channel's profit records for one period.
//
// The order sheet reports royalties per (ASIN, store); rows with an unknown
// ASIN or store are skipped. The SKU catalog maps ASINs to SKUs and is not
// period filtered. An ASIN's royalty total is divided evenly across the SKU
// rows that reference it, one profit record per SKU row.
func Merch(orders, skus []sheet.Row, month, year int) ([]domain.ProfitRecord, error) {
	orderRows, _, err := sheet.Filter(orders, merchOrderSchema, month, year)
	if err != nil {
		return nil, err
	}
	if len(skus) == 0 {
		return nil, fmt.Errorf("merch sku catalog: %w", sheet.ErrEmptySheet)
	}

	royalties := make(map[string]float64)
	for _, r := range orderRows {
		asin := strings.TrimSpace(r.Get("ASIN"))
		store := strings.TrimSpace(r.Get("Store ID"))
		if asin == "" || asin == domain.UnknownID || store == "" || store == domain.UnknownID {
			continue
		}
		royalties[asin] += normalize.ParseNumber(r.Get("Royalties"))
	}

	skuRows := make(map[string]int)
	for _, r := range skus {
		asin := strings.TrimSpace(r.Get("ASIN"))
		if asin != "" {
			skuRows[asin]++
		}
	}

	var out []domain.ProfitRecord
	for _, r := range skus {
		asin := strings.TrimSpace(r.Get("ASIN"))
		if asin == "" {
			continue
		}
		total, ok := royalties[asin]
		var share float64
		if ok && skuRows[asin] > 0 {
			share = normalize.Round2(total / float64(skuRows[asin]))
		}

		sku := strings.TrimSpace(r.Get("SKU"))
		designer, rd := domain.SplitSKU(sku)
		out = append(out, domain.ProfitRecord{
			OrderID:    asin,
			Date:       normalize.ParseDate(r.Get("Created Date")),
			Revenue:    share,
			Cost:       0,
			Profit:     share,
			DesignerID: domain.NormalizeID(designer),
			RAndDID:    domain.NormalizeID(rd),
			SKU:        sku,
		})
	}
	return out, nil
}
