// internal/repository/postgres/kpi_target_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sellerops/profitkpi/internal/domain"
)

type kpiTargetRepository struct {
	db *DB
}

func NewKPITargetRepository(db *DB) *kpiTargetRepository {
	return &kpiTargetRepository{db: db}
}

// SaveTargets replaces the period's target rows with the uploaded ones, so a
// re-upload for the same month is a clean overwrite rather than a merge.
func (r *kpiTargetRepository) SaveTargets(ctx context.Context, targets []domain.KPITarget) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		periods := make(map[[2]int]bool)
		for _, t := range targets {
			periods[[2]int{t.Month, t.Year}] = true
		}
		for p := range periods {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM kpi_targets WHERE month = $1 AND year = $2`, p[0], p[1]); err != nil {
				return fmt.Errorf("failed to clear targets for %d/%d: %w", p[0], p[1], err)
			}
		}

		query := `
			INSERT INTO kpi_targets (month, year, pic, position, target)
			VALUES ($1, $2, $3, $4, $5)
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, t := range targets {
			if _, err := stmt.ExecContext(ctx, t.Month, t.Year, t.PIC, t.Position, t.Target); err != nil {
				return fmt.Errorf("failed to insert target: %w", err)
			}
		}
		return nil
	})
}

// GetTargets fetches the target rows for one period.
func (r *kpiTargetRepository) GetTargets(ctx context.Context, month, year int) ([]domain.KPITarget, error) {
	var targets []domain.KPITarget
	query := `
		SELECT month, year, pic, position, target
		FROM kpi_targets
		WHERE month = $1 AND year = $2
		ORDER BY pic
	`
	if err := r.db.SelectContext(ctx, &targets, query, month, year); err != nil {
		return nil, fmt.Errorf("failed to fetch targets for %d/%d: %w", month, year, err)
	}
	return targets, nil
}
