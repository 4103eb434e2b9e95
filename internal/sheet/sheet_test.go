package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Name:     "orders",
	DateCol:  "Date",
	Required: []string{"Date", "Order ID"},
	Sentinels: map[string][]string{
		"Order ID": {"amazon-order-id"},
		"Date":     {"last-updated-date"},
	},
}

func TestFilterEmptySheet(t *testing.T) {
	_, _, err := Filter(nil, testSchema, 5, 2025)
	require.ErrorIs(t, err, ErrEmptySheet)
}

func TestFilter(t *testing.T) {
	rows := []Row{
		{"Date": "2025-05-01", "Order ID": "A1"},           // kept
		{"Date": "2025-04-30", "Order ID": "A2"},           // out of period
		{"Date": "last-updated-date", "Order ID": "A3"},    // sentinel
		{"Date": "2025-05-02", "Order ID": ""},             // missing required
		{"Date": "not a date", "Order ID": "A5"},           // unparseable
		{"Date": "2025-05-03", "Order ID": "amazon-order-id"}, // repeated header
		{"Date": "2025-05-04", "Order ID": "A7"},           // kept
	}

	valid, rowErrs, err := Filter(rows, testSchema, 5, 2025)
	require.NoError(t, err)

	require.Len(t, valid, 2)
	assert.Equal(t, "A1", valid[0].Get("Order ID"))
	assert.Equal(t, "A7", valid[1].Get("Order ID"))
	assert.Equal(t, 1, valid[0].Index)
	assert.Equal(t, 7, valid[1].Index)

	// Out-of-period rows are silently dropped; the rest are reported.
	require.Len(t, rowErrs, 4)
	assert.Equal(t, "sentinel row", rowErrs[0].Reason)
	assert.Equal(t, "missing required column", rowErrs[1].Reason)
	assert.Equal(t, "unparseable date", rowErrs[2].Reason)
	assert.Equal(t, "sentinel row", rowErrs[3].Reason)
}

func TestRowGetTrimsHeaders(t *testing.T) {
	row := Row{"Store ID ": "S1"}
	assert.Equal(t, "S1", row.Get("Store ID"))
	assert.Equal(t, "S1", row.Get("Store ID "))
	assert.Equal(t, "", row.Get("Missing"))
}
