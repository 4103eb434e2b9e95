// internal/channel/labels.go
package channel

import (
	"sort"
	"strings"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
	"github.com/sellerops/profitkpi/internal/sheet"
)

// Supplemental staff reports built from the label and tracking sheets. These
// share the period filter with the channel processors but aggregate per
// seller or staff code instead of per order.

var (
	buyingLabelSchema = sheet.Schema{Name: "buying label", DateCol: "Date"}
	scanLabelSchema   = sheet.Schema{Name: "scan label", DateCol: "Date"}
	trackingSchema    = sheet.Schema{Name: "tracking", DateCol: "Date"}
	staffSchema       = sheet.Schema{Name: "service staff", DateCol: "Date"}
)

// BuyingLabel totals revenue, cost and profit per seller.
func BuyingLabel(rows []sheet.Row, month, year int) ([]domain.SellerTotal, error) {
	valid, _, err := sheet.Filter(rows, buyingLabelSchema, month, year)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*domain.SellerTotal)
	for _, r := range valid {
		seller := sellerOf(r.Row)
		rev := normalize.ParseNumber(r.Get("REV"))
		cost := normalize.ParseNumber(r.Get("Cost"))

		t := totals[seller]
		if t == nil {
			t = &domain.SellerTotal{Seller: seller}
			totals[seller] = t
		}
		t.TotalRev += rev
		t.TotalCost += cost
		t.TotalProfit += rev - cost
	}
	return sellerList(totals, true), nil
}

// ScanLabel totals profit per seller with the handling-margin rule: a 1.50
// flat-rate row earns 30% of its cost, any other row earns revenue minus
// cost plus the same 30% of cost.
func ScanLabel(rows []sheet.Row, month, year int) ([]domain.SellerTotal, error) {
	valid, _, err := sheet.Filter(rows, scanLabelSchema, month, year)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*domain.SellerTotal)
	for _, r := range valid {
		seller := sellerOf(r.Row)
		rev := normalize.ParseNumber(r.Get("REV"))
		cost := normalize.ParseNumber(r.Get("Cost"))

		var profit float64
		if rev == 1.5 {
			profit = cost * 0.3
		} else {
			profit = (rev - cost) + cost*0.3
		}

		t := totals[seller]
		if t == nil {
			t = &domain.SellerTotal{Seller: seller}
			totals[seller] = t
		}
		t.TotalRev += rev
		t.TotalProfit += profit
	}
	return sellerList(totals, false), nil
}

// Tracking sums the profit of virtual-tracking rows for the period.
func Tracking(rows []sheet.Row, month, year int) (float64, error) {
	valid, _, err := sheet.Filter(rows, trackingSchema, month, year)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, r := range valid {
		if strings.TrimSpace(r.Get("Type_1")) != "Tracking Ảo" {
			continue
		}
		total += normalize.ParseNumber(r.Get("Profit"))
	}
	return total, nil
}

// StaffSheet describes one service-staff input sheet: where its profit comes
// from and an optional row filter on a type column.
type StaffSheet struct {
	Rows []sheet.Row
	// ProfitCol holds the row profit; empty means profit = Rev - Cost.
	ProfitCol string
	// TypeCol/TypeValue keep only rows whose type matches; empty keeps all.
	TypeCol   string
	TypeValue string
}

// ServiceStaff attributes row profit to staff codes. The Sales cell lists
// one or more space-separated codes and each code receives the full row
// profit, not a share.
func ServiceStaff(sheets []StaffSheet, month, year int) ([]domain.StaffTotal, error) {
	totals := make(map[string]float64)
	for _, s := range sheets {
		valid, _, err := sheet.Filter(s.Rows, staffSchema, month, year)
		if err != nil {
			return nil, err
		}
		for _, r := range valid {
			if s.TypeCol != "" && strings.TrimSpace(r.Get(s.TypeCol)) != s.TypeValue {
				continue
			}

			var profit float64
			if s.ProfitCol != "" {
				profit = normalize.ParseNumber(r.Get(s.ProfitCol))
			} else {
				profit = normalize.ParseNumber(r.Get("Rev")) - normalize.ParseNumber(r.Get("Cost"))
			}

			for _, code := range strings.Fields(r.Get("Sales")) {
				totals[code] += profit
			}
		}
	}

	out := make([]domain.StaffTotal, 0, len(totals))
	for code, profit := range totals {
		out = append(out, domain.StaffTotal{
			Month:  month,
			Year:   year,
			Sales:  code,
			Profit: normalize.Round2(profit),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sales < out[j].Sales })
	return out, nil
}

func sellerOf(r sheet.Row) string {
	if s := strings.TrimSpace(r.Get("Seller")); s != "" {
		return s
	}
	return domain.UnknownID
}

func sellerList(totals map[string]*domain.SellerTotal, withCost bool) []domain.SellerTotal {
	out := make([]domain.SellerTotal, 0, len(totals))
	for _, t := range totals {
		st := domain.SellerTotal{
			Seller:      t.Seller,
			TotalRev:    normalize.Round2(t.TotalRev),
			TotalProfit: normalize.Round2(t.TotalProfit),
		}
		if withCost {
			st.TotalCost = normalize.Round2(t.TotalCost)
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seller < out[j].Seller })
	return out
}
