// internal/attribution/attribution.go
package attribution

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
)

// ErrMissingChannels marks an aggregate that could not be built because one
// or more channels produced no result.
var ErrMissingChannels = errors.New("missing channel results")

// Attribute folds profit records into per-designer and per-R&D totals.
//
// Totals are re-rounded after every addition, which is how the historical
// reports were produced; changing it would shift published numbers by cents.
// Records whose designer or R&D id is empty are skipped for that map only.
// A record whose (orderId, designerId) pair matches a custom-order row has
// its designer contribution doubled; the R&D side is unaffected.
func Attribute(records []domain.ProfitRecord, custom []domain.CustomOrderRecord) domain.ChannelResult {
	bonus := make(map[string]bool, len(custom))
	for _, c := range custom {
		bonus[bonusKey(c.OrderID, c.DesignerID)] = true
	}

	designer := domain.ProfitMap{}
	rd := domain.ProfitMap{}
	for _, rec := range records {
		if rec.DesignerID != "" {
			contribution := rec.Profit
			if bonus[bonusKey(rec.OrderID, rec.DesignerID)] {
				contribution *= 2
			}
			designer[rec.DesignerID] = normalize.Round2(designer[rec.DesignerID] + contribution)
		}
		if rec.RAndDID != "" {
			rd[rec.RAndDID] = normalize.Round2(rd[rec.RAndDID] + rec.Profit)
		}
	}

	return domain.ChannelResult{
		DesignerProfit: designer,
		RDProfit:       rd,
		TotalRecords:   len(records),
		ProfitData:     records,
	}
}

func bonusKey(orderID, designerID string) string {
	return strings.TrimSpace(orderID) + "|" + domain.NormalizeID(designerID)
}

// MergeShops combines per-shop results into a single channel result, used for
// Etsy where each shop's workbook is processed separately.
func MergeShops(shops []domain.ChannelResult) domain.ChannelResult {
	merged := domain.ChannelResult{
		DesignerProfit: domain.ProfitMap{},
		RDProfit:       domain.ProfitMap{},
	}
	for _, s := range shops {
		for id, p := range s.DesignerProfit {
			merged.DesignerProfit[id] = normalize.Round2(merged.DesignerProfit[id] + p)
		}
		for id, p := range s.RDProfit {
			merged.RDProfit[id] = normalize.Round2(merged.RDProfit[id] + p)
		}
		merged.TotalRecords += s.TotalRecords
		merged.ProfitData = append(merged.ProfitData, s.ProfitData...)
	}
	return merged
}

// Merge builds the monthly aggregate from the four channel results. Missing
// channels make the whole report unusable, so the merge is all-or-nothing
// and the error names every absent channel.
func Merge(results map[domain.Channel]*domain.ChannelResult, month, year int) (*domain.Aggregate, error) {
	var missing []string
	for _, ch := range domain.Channels() {
		if results[ch] == nil {
			missing = append(missing, string(ch))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingChannels, strings.Join(missing, ", "))
	}

	agg := &domain.Aggregate{
		DesignerProfit:  domain.ProfitMap{},
		RDProfit:        domain.ProfitMap{},
		PlatformSummary: map[domain.Channel]float64{},
		Month:           month,
		Year:            year,
	}

	for _, ch := range domain.Channels() {
		res := results[ch]
		var platform float64
		for id, p := range res.DesignerProfit {
			agg.DesignerProfit[id] = normalize.Round2(agg.DesignerProfit[id] + p)
			platform += p
		}
		for id, p := range res.RDProfit {
			agg.RDProfit[id] = normalize.Round2(agg.RDProfit[id] + p)
		}
		agg.PlatformSummary[ch] = normalize.Round2(platform)
	}

	var total float64
	for _, p := range agg.PlatformSummary {
		total += p
	}
	agg.TotalProfit = normalize.Round2(total)

	return agg, nil
}
