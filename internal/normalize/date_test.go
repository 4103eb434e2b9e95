package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateSerial(t *testing.T) {
	// Serial 25569 is the Unix epoch.
	d := ParseDate("25569")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), *d)

	// 2025-05-15 is serial 45792.
	d = ParseDate("45792")
	require.NotNil(t, d)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, 15, d.Day())

	// Fractional part carries the time of day.
	d = ParseDate("25569.5")
	require.NotNil(t, d)
	assert.Equal(t, 12, d.Hour())
}

func TestParseDateString(t *testing.T) {
	d := ParseDate("2025-05-15")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), *d)

	d = ParseDate("05/15/2025")
	require.NotNil(t, d)
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, 15, d.Day())
}

func TestParseDateInvalid(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("Unknown"))
	assert.Nil(t, ParseDate("last-updated-date"))
}

func TestInPeriod(t *testing.T) {
	d := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	assert.True(t, InPeriod(&d, 5, 2025))
	assert.False(t, InPeriod(&d, 6, 2025))
	assert.False(t, InPeriod(&d, 5, 2024))
	assert.False(t, InPeriod(nil, 5, 2025))
}

func TestParseMonthYear(t *testing.T) {
	tests := []struct {
		cell  string
		month int
		year  int
		ok    bool
	}{
		{"Aug-2025", 8, 2025, true},
		{"August 2025", 8, 2025, true},
		{"aug-2025", 8, 2025, true},
		{"8/2025", 8, 2025, true},
		{"12-2024", 12, 2024, true},
		{"2025", 0, 0, false},
		{"Aug", 0, 0, false},
		{"Foo-2025", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range tests {
		m, y, ok := ParseMonthYear(tc.cell)
		assert.Equal(t, tc.ok, ok, tc.cell)
		assert.Equal(t, tc.month, m, tc.cell)
		assert.Equal(t, tc.year, y, tc.cell)
	}
}
