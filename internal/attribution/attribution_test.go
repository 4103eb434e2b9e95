package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/profitkpi/internal/domain"
)

func record(orderID, designer, rd string, profit float64) domain.ProfitRecord {
	return domain.ProfitRecord{
		OrderID:    orderID,
		DesignerID: designer,
		RAndDID:    rd,
		Profit:     profit,
	}
}

func TestAttribute(t *testing.T) {
	records := []domain.ProfitRecord{
		record("A1", "AB", "CD", 60),
		record("A2", "AB", "GH", 15.5),
		record("A3", "", "CD", 10), // no designer: R&D side only
	}

	res := Attribute(records, nil)

	assert.Equal(t, domain.ProfitMap{"AB": 75.5}, res.DesignerProfit)
	assert.Equal(t, domain.ProfitMap{"CD": 70.0, "GH": 15.5}, res.RDProfit)
	assert.Equal(t, 3, res.TotalRecords)
}

func TestAttributeCustomOrderDoublesDesignerOnly(t *testing.T) {
	records := []domain.ProfitRecord{
		record("A1", "AB", "CD", 60),
	}
	custom := []domain.CustomOrderRecord{
		{OrderID: "A1", DesignerID: "AB"},
	}

	res := Attribute(records, custom)

	assert.Equal(t, domain.ProfitMap{"AB": 120.0}, res.DesignerProfit)
	assert.Equal(t, domain.ProfitMap{"CD": 60.0}, res.RDProfit)
}

func TestAttributeCustomOrderRequiresBothKeys(t *testing.T) {
	records := []domain.ProfitRecord{
		record("A1", "AB", "CD", 60),
	}
	custom := []domain.CustomOrderRecord{
		{OrderID: "A1", DesignerID: "ZZ"}, // designer mismatch
		{OrderID: "A9", DesignerID: "AB"}, // order mismatch
	}

	res := Attribute(records, custom)
	assert.Equal(t, domain.ProfitMap{"AB": 60.0}, res.DesignerProfit)
}

func TestMergeShops(t *testing.T) {
	merged := MergeShops([]domain.ChannelResult{
		{DesignerProfit: domain.ProfitMap{"AB": 10}, RDProfit: domain.ProfitMap{"CD": 5}, TotalRecords: 1},
		{DesignerProfit: domain.ProfitMap{"AB": 2.5, "EF": 1}, RDProfit: domain.ProfitMap{"CD": 1}, TotalRecords: 2},
	})

	assert.Equal(t, domain.ProfitMap{"AB": 12.5, "EF": 1.0}, merged.DesignerProfit)
	assert.Equal(t, domain.ProfitMap{"CD": 6.0}, merged.RDProfit)
	assert.Equal(t, 3, merged.TotalRecords)
}

func TestMerge(t *testing.T) {
	results := map[domain.Channel]*domain.ChannelResult{
		domain.ChannelAmazon: {DesignerProfit: domain.ProfitMap{"AB": 10}, RDProfit: domain.ProfitMap{"CD": 10}},
		domain.ChannelEtsy:   {DesignerProfit: domain.ProfitMap{"AB": 5}, RDProfit: domain.ProfitMap{}},
		domain.ChannelWeb:    {DesignerProfit: domain.ProfitMap{"EF": 7}, RDProfit: domain.ProfitMap{}},
		domain.ChannelMerch:  {DesignerProfit: domain.ProfitMap{}, RDProfit: domain.ProfitMap{}},
	}

	agg, err := Merge(results, 5, 2025)
	require.NoError(t, err)

	assert.Equal(t, domain.ProfitMap{"AB": 15.0, "EF": 7.0}, agg.DesignerProfit)
	assert.Equal(t, 10.0, agg.PlatformSummary[domain.ChannelAmazon])
	assert.Equal(t, 5.0, agg.PlatformSummary[domain.ChannelEtsy])
	assert.Equal(t, 7.0, agg.PlatformSummary[domain.ChannelWeb])
	assert.Equal(t, 0.0, agg.PlatformSummary[domain.ChannelMerch])
	assert.Equal(t, 22.0, agg.TotalProfit)
	assert.Equal(t, 5, agg.Month)
	assert.Equal(t, 2025, agg.Year)
}

func TestMergeMissingChannels(t *testing.T) {
	results := map[domain.Channel]*domain.ChannelResult{
		domain.ChannelAmazon: {DesignerProfit: domain.ProfitMap{}, RDProfit: domain.ProfitMap{}},
	}

	_, err := Merge(results, 5, 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etsy")
	assert.Contains(t, err.Error(), "web")
	assert.Contains(t, err.Error(), "merch")
}
