package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/sheet"
)

func TestPICKey(t *testing.T) {
	assert.Equal(t, "TH", PICKey("Huy (TH)"))
	assert.Equal(t, "TH", PICKey("( TH )"))
	assert.Equal(t, "Huy", PICKey("  Huy  "))
	assert.Equal(t, "", PICKey(""))
}

func TestParseTargets(t *testing.T) {
	rows := []sheet.Row{
		{"Month": "Aug-2025", "PIC": "Huy (TH)", "Position": "Designer", "Target (100%)": "1000"},
		{"Month": "not a month", "PIC": "X", "Position": "Designer", "Target (100%)": "1"},
		{"Month": "8/2025", "PIC": "Lan (LA)", "Position": "R&D", "Target (100%)": "500"},
	}

	targets, err := ParseTargets(rows)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, 8, targets[0].Month)
	assert.Equal(t, 2025, targets[0].Year)
	assert.Equal(t, "Huy (TH)", targets[0].PIC)
	assert.Equal(t, 1000.0, targets[0].Target)
	assert.Equal(t, "R&D", targets[1].Position)
}

func TestParseTargetsEmpty(t *testing.T) {
	_, err := ParseTargets(nil)
	require.ErrorIs(t, err, sheet.ErrEmptySheet)
}

func testAggregate() *domain.Aggregate {
	return &domain.Aggregate{
		DesignerProfit: domain.ProfitMap{"TH": 800, "LA": 100},
		RDProfit:       domain.ProfitMap{"LA": 250},
		TotalProfit:    2000,
		Month:          8,
		Year:           2025,
	}
}

func TestMatch(t *testing.T) {
	targets := []domain.KPITarget{
		{Month: 8, Year: 2025, PIC: "Huy (TH)", Position: "Designer", Target: 1000},
		{Month: 8, Year: 2025, PIC: "Lan (LA)", Position: "R&D", Target: 500},
		{Month: 8, Year: 2025, PIC: "Chi (CH)", Position: "CSM", Target: 4000},
		{Month: 7, Year: 2025, PIC: "Old (OL)", Position: "Designer", Target: 1}, // other period
		{Month: 8, Year: 2025, PIC: "Misc", Position: "Service Staff", Target: 1}, // excluded
	}

	results, err := Match(testAggregate(), targets, 8, 2025)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "TH", results[0].PICKey)
	assert.Equal(t, 800.0, results[0].Profit)
	assert.Equal(t, "80.00%", results[0].KPI)

	// R&D rows read the R&D map, not the designer map.
	assert.Equal(t, 250.0, results[1].Profit)
	assert.Equal(t, "50.00%", results[1].KPI)

	// Every CSM row receives the platform grand total.
	assert.Equal(t, 2000.0, results[2].Profit)
	assert.Equal(t, "50.00%", results[2].KPI)
}

func TestMatchZeroTarget(t *testing.T) {
	targets := []domain.KPITarget{
		{Month: 8, Year: 2025, PIC: "Huy (TH)", Position: "Designer", Target: 0},
	}

	results, err := Match(testAggregate(), targets, 8, 2025)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "0.00%", results[0].KPI)
}

func TestMatchNoTargetsForPeriod(t *testing.T) {
	targets := []domain.KPITarget{
		{Month: 7, Year: 2025, PIC: "Huy (TH)", Position: "Designer", Target: 100},
	}

	_, err := Match(testAggregate(), targets, 8, 2025)
	require.ErrorIs(t, err, ErrNoTargets)
}

func TestMatchOnlyPlaceholderRows(t *testing.T) {
	// A period whose rows are all placeholders has nobody to score, which is
	// the same failure as having no rows at all.
	targets := []domain.KPITarget{
		{Month: 8, Year: 2025, PIC: "Misc", Position: "Service Staff", Target: 1},
		{Month: 8, Year: 2025, PIC: "Misc", Position: "Sales", Target: 1},
	}

	_, err := Match(testAggregate(), targets, 8, 2025)
	require.ErrorIs(t, err, ErrNoTargets)
}
