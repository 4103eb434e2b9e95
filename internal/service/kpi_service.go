// internal/service/kpi_service.go
package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/kpi"
)

// TargetRepository persists uploaded KPI targets so later report runs can
// reuse them without re-uploading the sheet.
type TargetRepository interface {
	SaveTargets(ctx context.Context, targets []domain.KPITarget) error
	GetTargets(ctx context.Context, month, year int) ([]domain.KPITarget, error)
}

// The target workbook keeps its table on the first sheet.
var roleKPITargets = sheetRole{"KPI", 0}

// KPIService joins monthly aggregates against the KPI target table.
type KPIService struct {
	profits *ProfitService
	targets TargetRepository // optional
}

func NewKPIService(profits *ProfitService, targets TargetRepository) *KPIService {
	return &KPIService{profits: profits, targets: targets}
}

// ParseTargetWorkbook reads and parses the target sheet, persisting the rows
// when a repository is configured. Persistence is best effort; the uploaded
// sheet stays authoritative for the current request.
func (s *KPIService) ParseTargetWorkbook(ctx context.Context, wb SheetReader) ([]domain.KPITarget, error) {
	rows, _, err := wb.Sheet(roleKPITargets.name, roleKPITargets.index)
	if err != nil {
		return nil, err
	}
	targets, err := kpi.ParseTargets(rows)
	if err != nil {
		return nil, err
	}

	if s.targets != nil {
		if err := s.targets.SaveTargets(ctx, targets); err != nil {
			log.Warn().Err(err).Msg("failed to persist kpi targets")
		}
	}
	return targets, nil
}

// Report computes the combined KPI report: the profit workbook yields the
// monthly aggregate, the target workbook the rows to score against it.
func (s *KPIService) Report(ctx context.Context, profitWB, targetWB SheetReader, month, year int, digest string) ([]domain.KPIResult, *domain.Aggregate, error) {
	agg, err := s.profits.MonthlyAggregate(ctx, profitWB, month, year, digest)
	if err != nil {
		return nil, nil, err
	}

	targets, err := s.ParseTargetWorkbook(ctx, targetWB)
	if err != nil {
		return nil, nil, err
	}

	results, err := kpi.Match(agg, targets, month, year)
	if err != nil {
		return nil, nil, err
	}
	return results, agg, nil
}

// StoredReport scores previously persisted targets against the aggregate,
// for callers that upload only the profit workbook.
func (s *KPIService) StoredReport(ctx context.Context, profitWB SheetReader, month, year int, digest string) ([]domain.KPIResult, *domain.Aggregate, error) {
	if s.targets == nil {
		return nil, nil, kpi.ErrNoTargets
	}

	agg, err := s.profits.MonthlyAggregate(ctx, profitWB, month, year, digest)
	if err != nil {
		return nil, nil, err
	}
	targets, err := s.targets.GetTargets(ctx, month, year)
	if err != nil {
		return nil, nil, err
	}

	results, err := kpi.Match(agg, targets, month, year)
	if err != nil {
		return nil, nil, err
	}
	return results, agg, nil
}
