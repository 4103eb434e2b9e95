package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/profitkpi/internal/sheet"
)

func TestMerch(t *testing.T) {
	orders := []sheet.Row{
		{"Date": "2025-05-01", "ASIN": "B001", "Store ID": "S1", "Royalties": "30"},
		{"Date": "2025-05-02", "ASIN": "B001", "Store ID": "S1", "Royalties": "30"},
		{"Date": "2025-05-03", "ASIN": "B002", "Store ID": "S1", "Royalties": "10"},
		// unknown identifiers are skipped
		{"Date": "2025-05-04", "ASIN": "Unknown", "Store ID": "S1", "Royalties": "99"},
		{"Date": "2025-05-05", "ASIN": "B003", "Store ID": "Unknown", "Royalties": "99"},
	}
	skus := []sheet.Row{
		{"SKU": "AB-CD-1", "ASIN": "B001", "Created Date": "2025-01-01"},
		{"SKU": "EF-GH-2", "ASIN": "B001", "Created Date": "2025-01-02"},
		{"SKU": "IJ-KL-3", "ASIN": "B002", "Created Date": "2025-01-03"},
	}

	records, err := Merch(orders, skus, 5, 2025)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// B001 royalties total 60, split evenly over its two SKU rows.
	assert.Equal(t, 30.0, records[0].Profit)
	assert.Equal(t, "AB", records[0].DesignerID)
	assert.Equal(t, 30.0, records[1].Profit)
	assert.Equal(t, "EF", records[1].DesignerID)
	assert.Equal(t, 10.0, records[2].Profit)
}

func TestMerchSKUWithoutRoyalties(t *testing.T) {
	orders := []sheet.Row{
		{"Date": "2025-05-01", "ASIN": "B001", "Store ID": "S1", "Royalties": "10"},
	}
	skus := []sheet.Row{
		{"SKU": "AB-CD-1", "ASIN": "B001", "Created Date": "2025-01-01"},
		{"SKU": "ZZ-YY-9", "ASIN": "B999", "Created Date": "2025-01-01"},
	}

	records, err := Merch(orders, skus, 5, 2025)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 10.0, records[0].Profit)
	assert.Equal(t, 0.0, records[1].Profit)
}

func TestMerchEmptyCatalog(t *testing.T) {
	orders := []sheet.Row{
		{"Date": "2025-05-01", "ASIN": "B001", "Store ID": "S1", "Royalties": "10"},
	}
	_, err := Merch(orders, nil, 5, 2025)
	require.ErrorIs(t, err, sheet.ErrEmptySheet)
}
