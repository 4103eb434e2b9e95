package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/profitkpi/internal/sheet"
)

func TestWeb(t *testing.T) {
	orders := []sheet.Row{
		{"Date": "2025-05-01", "Custom Number": "W1", "Item ID": "AB-CD-1",
			"Net": "100", "Address Status": "Confirmed"},
		{"Date": "2025-05-02", "Custom Number": "W2", "Item ID": "EF-GH-2",
			"Net": "80", "Address Status": "Pending"}, // dropped
		{"Date": "2025-05-03", "Custom Number": "W3", "Item ID": "IJ-KL-3",
			"Net": "50", "Address Status": "Confirmed"},
	}
	webCost := []sheet.Row{
		{"Date created": "2025-05-01", "Sales channel Number": "W1", "Total cost": "30"},
	}
	fulfillment := []sheet.Row{
		{"Single Order ID": "W1", "Seller": "MER",
			"Basecost": "5", "Poly Mailer": "2", "Cost Buying Label": "3"},
		{"Single Order ID": "W3", "Seller": "OTHER",
			"Basecost": "9", "Poly Mailer": "9", "Cost Buying Label": "9"}, // wrong seller
	}

	records, err := Web(orders, webCost, fulfillment, 5, 2025)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// W1: 100 - (30 + 5 + 2 + 3) = 60
	assert.Equal(t, "W1", records[0].OrderID)
	assert.Equal(t, 40.0, records[0].Cost)
	assert.Equal(t, 60.0, records[0].Profit)

	// W3 has no cost rows that apply.
	assert.Equal(t, "W3", records[1].OrderID)
	assert.Equal(t, 0.0, records[1].Cost)
	assert.Equal(t, 50.0, records[1].Profit)
}

func TestWebTotalCostDropsZeroTotals(t *testing.T) {
	webCost := []sheet.Row{
		{"Date created": "2025-05-01", "Sales channel Number": "W1", "Total cost": "0"},
		{"Date created": "2025-05-01", "Sales channel Number": "W2", "Total cost": "10"},
	}
	fulfillment := []sheet.Row{
		{"Single Order ID": "W9", "Seller": "MER",
			"Basecost": "1", "Poly Mailer": "1", "Cost Buying Label": "1"},
	}

	cost, err := webTotalCost(webCost, fulfillment, 5, 2025)
	require.NoError(t, err)

	_, ok := cost["W1"]
	assert.False(t, ok)
	assert.Equal(t, 10.0, cost["W2"])
	assert.Equal(t, 3.0, cost["W9"])
}
