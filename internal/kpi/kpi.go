// internal/kpi/kpi.go
package kpi

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/normalize"
	"github.com/sellerops/profitkpi/internal/sheet"
)

// ErrNoTargets means the target table has no rows for the requested period.
// Fatal to the KPI report, since the output would otherwise be empty.
var ErrNoTargets = errors.New("no KPI targets for the requested period")

var picCodeRe = regexp.MustCompile(`\(([^)]+)\)`)

// Positions that mark placeholder rows rather than people to score.
var excludedPositions = map[string]bool{
	"service staff": true,
	"sales":         true,
}

// PICKey extracts the short code a PIC cell may embed in parentheses,
// "Huy (TH)" yielding "TH". Without a code the trimmed full string is the key.
func PICKey(pic string) string {
	if m := picCodeRe.FindStringSubmatch(pic); m != nil {
		if code := strings.TrimSpace(m[1]); code != "" {
			return code
		}
	}
	return strings.TrimSpace(pic)
}

// ParseTargets reads the target sheet. The Month column holds month-year
// cells ("Aug-2025", "8/2025"); rows whose month does not parse are dropped
// with a diagnostic.
func ParseTargets(rows []sheet.Row) ([]domain.KPITarget, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("kpi targets: %w", sheet.ErrEmptySheet)
	}

	var out []domain.KPITarget
	for i, r := range rows {
		month, year, ok := normalize.ParseMonthYear(r.Get("Month"))
		if !ok {
			log.Warn().Int("row", i+1).Str("month", r.Get("Month")).
				Msg("target row with unparseable month")
			continue
		}
		out = append(out, domain.KPITarget{
			Month:    month,
			Year:     year,
			PIC:      strings.TrimSpace(r.Get("PIC")),
			Position: strings.TrimSpace(r.Get("Position")),
			Target:   normalize.ParseNumber(r.Get("Target (100%)")),
		})
	}
	return out, nil
}

// Match scores every target row of the period against the aggregate.
//
// Position picks the profit source: R&D rows read the R&D map, CSM rows all
// receive the platform-wide grand total (a deliberate simplification, not a
// per-person figure), anything else reads the designer map. Placeholder
// positions are excluded. target <= 0 scores "0.00%" instead of dividing.
func Match(agg *domain.Aggregate, targets []domain.KPITarget, month, year int) ([]domain.KPIResult, error) {
	var results []domain.KPIResult
	matched := 0

	for _, t := range targets {
		if t.Month != month || t.Year != year {
			continue
		}

		pos := strings.ToLower(t.Position)
		if pos == "" || excludedPositions[pos] {
			continue
		}
		matched++

		key := PICKey(t.PIC)
		var profit float64
		switch {
		case strings.Contains(pos, "r&d"):
			profit = agg.RDProfit[key]
		case strings.Contains(pos, "csm"):
			profit = agg.TotalProfit
		default:
			profit = agg.DesignerProfit[key]
		}

		kpi := "0.00%"
		if t.Target > 0 {
			kpi = fmt.Sprintf("%.2f%%", profit/t.Target*100)
		}

		results = append(results, domain.KPIResult{
			PIC:      t.PIC,
			PICKey:   key,
			Position: t.Position,
			Profit:   profit,
			Target:   t.Target,
			KPI:      kpi,
		})
	}

	if matched == 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrNoTargets, month, year)
	}
	return results, nil
}
