package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/kpi"
	"github.com/sellerops/profitkpi/internal/sheet"
)

type memTargetRepo struct {
	saved []domain.KPITarget
}

func (m *memTargetRepo) SaveTargets(ctx context.Context, targets []domain.KPITarget) error {
	m.saved = append(m.saved, targets...)
	return nil
}

func (m *memTargetRepo) GetTargets(ctx context.Context, month, year int) ([]domain.KPITarget, error) {
	var out []domain.KPITarget
	for _, t := range m.saved {
		if t.Month == month && t.Year == year {
			out = append(out, t)
		}
	}
	return out, nil
}

func targetWorkbook() *stubWorkbook {
	return &stubWorkbook{
		byIndex: map[int][]sheet.Row{
			0: {
				{"Month": "May-2025", "PIC": "Huy (AB)", "Position": "Designer", "Target (100%)": "120"},
				{"Month": "May-2025", "PIC": "Lan (CD)", "Position": "R&D", "Target (100%)": "120"},
				{"Month": "May-2025", "PIC": "Chi (CH)", "Position": "CSM", "Target (100%)": "280"},
			},
		},
	}
}

func TestKPIReport(t *testing.T) {
	repo := &memTargetRepo{}
	svc := NewKPIService(NewProfitService(testConfig(), nil), repo)

	results, agg, err := svc.Report(context.Background(), profitWorkbook(), targetWorkbook(), 5, 2025, "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 140.0, agg.TotalProfit)

	// Designer AB earned 60 against a target of 120.
	assert.Equal(t, "AB", results[0].PICKey)
	assert.Equal(t, 60.0, results[0].Profit)
	assert.Equal(t, "50.00%", results[0].KPI)

	assert.Equal(t, 60.0, results[1].Profit) // R&D CD
	assert.Equal(t, "50.00%", results[1].KPI)

	// CSM rows receive the platform grand total.
	assert.Equal(t, 140.0, results[2].Profit)
	assert.Equal(t, "50.00%", results[2].KPI)

	// Uploaded targets were persisted for later runs.
	assert.Len(t, repo.saved, 3)
}

func TestKPIReportNoTargetsForPeriod(t *testing.T) {
	svc := NewKPIService(NewProfitService(testConfig(), nil), nil)

	wb := &stubWorkbook{byIndex: map[int][]sheet.Row{
		0: {
			{"Month": "Apr-2025", "PIC": "Huy (AB)", "Position": "Designer", "Target (100%)": "120"},
		},
	}}

	_, _, err := svc.Report(context.Background(), profitWorkbook(), wb, 5, 2025, "")
	require.ErrorIs(t, err, kpi.ErrNoTargets)
}

func TestKPIStoredReport(t *testing.T) {
	repo := &memTargetRepo{saved: []domain.KPITarget{
		{Month: 5, Year: 2025, PIC: "Huy (AB)", Position: "Designer", Target: 60},
	}}
	svc := NewKPIService(NewProfitService(testConfig(), nil), repo)

	results, _, err := svc.StoredReport(context.Background(), profitWorkbook(), 5, 2025, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "100.00%", results[0].KPI)
}
