package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/profitkpi/internal/sheet"
)

func TestBuyingLabel(t *testing.T) {
	rows := []sheet.Row{
		{"Date": "2025-05-01", "Seller": "ANN", "REV": "10", "Cost": "4"},
		{"Date": "2025-05-02", "Seller": "ANN", "REV": "20", "Cost": "5"},
		{"Date": "2025-05-03", "Seller": "BOB", "REV": "8", "Cost": "8"},
		{"Date": "2025-04-30", "Seller": "ANN", "REV": "99", "Cost": "0"}, // out of period
	}

	totals, err := BuyingLabel(rows, 5, 2025)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, "ANN", totals[0].Seller)
	assert.Equal(t, 30.0, totals[0].TotalRev)
	assert.Equal(t, 9.0, totals[0].TotalCost)
	assert.Equal(t, 21.0, totals[0].TotalProfit)
	assert.Equal(t, 0.0, totals[1].TotalProfit)
}

func TestScanLabelMarginRule(t *testing.T) {
	rows := []sheet.Row{
		// flat-rate row: profit is 30% of cost
		{"Date": "2025-05-01", "Seller": "ANN", "REV": "1.5", "Cost": "10"},
		// regular row: (rev - cost) + 30% of cost
		{"Date": "2025-05-02", "Seller": "ANN", "REV": "20", "Cost": "10"},
	}

	totals, err := ScanLabel(rows, 5, 2025)
	require.NoError(t, err)
	require.Len(t, totals, 1)

	assert.Equal(t, 21.5, totals[0].TotalRev)
	assert.Equal(t, 16.0, totals[0].TotalProfit) // 3 + 13
}

func TestTracking(t *testing.T) {
	rows := []sheet.Row{
		{"Date": "2025-05-01", "Type_1": "Tracking Ảo", "Profit": "5"},
		{"Date": "2025-05-02", "Type_1": "Tracking Ảo", "Profit": "7"},
		{"Date": "2025-05-03", "Type_1": "Other", "Profit": "100"},
	}

	total, err := Tracking(rows, 5, 2025)
	require.NoError(t, err)
	assert.Equal(t, 12.0, total)
}

func TestServiceStaffSplitsCodes(t *testing.T) {
	sheets := []StaffSheet{
		{
			Rows: []sheet.Row{
				// each listed code receives the full row profit
				{"Date": "2025-05-01", "Sales": "TH KL", "Rev": "30", "Cost": "10"},
			},
		},
		{
			Rows: []sheet.Row{
				{"Date": "2025-05-02", "Sales": "TH", "Type_1": "Empty Package", "Profit": "5"},
				{"Date": "2025-05-03", "Sales": "TH", "Type_1": "Other", "Profit": "99"},
			},
			ProfitCol: "Profit",
			TypeCol:   "Type_1",
			TypeValue: "Empty Package",
		},
		{
			Rows: []sheet.Row{
				{"Date": "2025-05-04", "Sales": "KL", "Profit_1": "2"},
			},
			ProfitCol: "Profit_1",
		},
	}

	totals, err := ServiceStaff(sheets, 5, 2025)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, "KL", totals[0].Sales)
	assert.Equal(t, 22.0, totals[0].Profit)
	assert.Equal(t, "TH", totals[1].Sales)
	assert.Equal(t, 25.0, totals[1].Profit)
}
