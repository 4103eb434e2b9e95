package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/profitkpi/internal/normalize"
	"github.com/sellerops/profitkpi/internal/sheet"
)

var testFX = normalize.FXRates{CADPerUSD: 1.37, VNDPerUSD: 26000}

func TestEtsy(t *testing.T) {
	statement := []sheet.Row{
		{"Date": "2025-05-01", "Type": "Sale", "Order ID (sale, refund)": "E1",
			"Store ID": "S1", "Amount": "$100.00"},
		{"Date": "2025-05-02", "Type": "Sale", "Order ID (sale, refund)": "E2",
			"Store ID": "S1", "Amount": "CA$137.00"},
	}
	fulfillment := []sheet.Row{
		{"OrderName": "E1", "Store ID": "S1", "NetPrice": "40", "Supplier": "X"},
		{"OrderName": "E2", "Store ID": "S1", "NetPrice": "30", "Supplier": "X"},
	}
	orders := []sheet.Row{
		{"Sale Date": "2025-05-01", "Order ID": "E1", "SKU": "AB-CD-1", "Store ID ": "S1"},
		{"Sale Date": "2025-05-02", "Order ID": "E2", "SKU": "EF-GH-2", "Store ID ": "S1"},
	}

	records, err := Etsy(statement, fulfillment, orders, 5, 2025, testFX, false)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "E1", records[0].OrderID)
	assert.Equal(t, "S1", records[0].StoreID)
	assert.Equal(t, 60.0, records[0].Profit)

	// CA$137 at 1.37 is 100 USD.
	assert.Equal(t, 100.0, records[1].Revenue)
	assert.Equal(t, 70.0, records[1].Profit)
}

func TestEtsyJoinRequiresStoreMatch(t *testing.T) {
	statement := []sheet.Row{
		{"Date": "2025-05-01", "Type": "Sale", "Order ID (sale, refund)": "E1",
			"Store ID": "S1", "Amount": "$100.00"},
	}
	fulfillment := []sheet.Row{
		{"OrderName": "E1", "Store ID": "S1", "NetPrice": "40"},
	}
	orders := []sheet.Row{
		// same order id but a different store: both sides default to 0
		{"Sale Date": "2025-05-01", "Order ID": "E1", "SKU": "AB-CD-1", "Store ID ": "S2"},
	}

	records, err := Etsy(statement, fulfillment, orders, 5, 2025, testFX, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].Profit)
}

func TestEtsyLedgerRevenue(t *testing.T) {
	statement := []sheet.Row{
		{"Date": "2025-05-01", "Type": "Sale", "Order ID (sale, refund)": "E1",
			"Store ID": "S1", "Amount": "$100.00"},
		{"Date": "2025-05-03", "Type": "Refund", "Order ID (sale, refund)": "E1",
			"Store ID": "S1", "Amount": "-$20.00"},
		{"Date": "2025-05-04", "Type": "Marketing", "Order ID (sale, refund)": "E1",
			"Store ID": "S1", "Amount": "$5.00"},
		{"Date": "2025-05-05", "Type": "Sale", "Order ID (sale, refund)": "E2",
			"Store ID": "S1", "Amount": "$50.00"},
		// fee with no order reference, spread across E1 and E2
		{"Date": "2025-05-06", "Type": "Subscription", "Order ID (sale, refund)": "",
			"Store ID": "S1", "Amount": "$10.00"},
	}

	revenue, err := ledgerRevenue(statement, 5, 2025, testFX)
	require.NoError(t, err)

	// E1: 100 - 20 - 5 - 5 = 70, E2: 50 - 5 = 45
	assert.Equal(t, 70.0, revenue["E1|S1"])
	assert.Equal(t, 45.0, revenue["E2|S1"])
}

func TestStatementUSDFindsAmountColumn(t *testing.T) {
	row := sheet.Row{"Net amount": "₫26,000", "Date": "2025-05-01"}
	assert.InDelta(t, 1.0, statementUSD(row, testFX), 1e-9)
}

func TestStatementUSDPrefersExactAmountColumn(t *testing.T) {
	row := sheet.Row{
		"Date":          "2025-05-01",
		"Amount":        "$100.00",
		"Refund amount": "$5.00",
	}
	// Map iteration order must not leak into column selection.
	for i := 0; i < 200; i++ {
		assert.Equal(t, 100.0, statementUSD(row, testFX))
	}

	// Without an exact Amount header the first amount-like column in sorted
	// order wins, deterministically.
	row = sheet.Row{
		"Date":          "2025-05-01",
		"Net amount":    "$30.00",
		"Refund amount": "$5.00",
	}
	for i := 0; i < 200; i++ {
		assert.Equal(t, 30.0, statementUSD(row, testFX))
	}
}
