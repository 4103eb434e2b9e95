// internal/sheet/sheet.go
package sheet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/normalize"
)

// ErrEmptySheet marks a sheet with no data rows. Structural, surfaced to the
// caller; row-level problems are RowErrors instead.
var ErrEmptySheet = errors.New("sheet contains no data rows")

// Row is one sheet row keyed by header cell. Values are the raw cell strings.
type Row map[string]string

// Get returns the cell under col. Headers in the source workbooks sometimes
// carry trailing whitespace ("Store ID "), so an exact miss falls back to a
// trimmed-header match.
func (r Row) Get(col string) string {
	if v, ok := r[col]; ok {
		return v
	}
	col = strings.TrimSpace(col)
	for k, v := range r {
		if strings.TrimSpace(k) == col {
			return v
		}
	}
	return ""
}

// Schema describes how to validate one sheet role before channel processing.
type Schema struct {
	// Name identifies the sheet role in diagnostics.
	Name string
	// DateCol is the column holding the row date, used for the period filter.
	DateCol string
	// Required columns must be present and non-blank.
	Required []string
	// Sentinels maps columns to values marking repeated-header or summary
	// rows, which are skipped.
	Sentinels map[string][]string
}

// RowError records why one row was excluded. Index is the 1-based data row
// (workbook row minus the header).
type RowError struct {
	Index  int
	Column string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s (%s)", e.Index, e.Reason, e.Column)
}

// ValidRow is a row that passed the schema and period filters, with its
// parsed date attached.
type ValidRow struct {
	Row
	Index int
	Date  time.Time
}

// Filter validates rows against the schema and the reporting period.
// Returned rows keep the source order. Excluded rows are reported as
// RowErrors and logged at warn level; an empty input is a structural error.
func Filter(rows []Row, s Schema, month, year int) ([]ValidRow, []RowError, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", s.Name, ErrEmptySheet)
	}

	var valid []ValidRow
	var errs []RowError

	for i, row := range rows {
		idx := i + 1

		if col, reason, ok := s.check(row); !ok {
			errs = append(errs, RowError{Index: idx, Column: col, Reason: reason})
			continue
		}

		date := normalize.ParseDate(row.Get(s.DateCol))
		if date == nil {
			errs = append(errs, RowError{Index: idx, Column: s.DateCol, Reason: "unparseable date"})
			continue
		}
		if !normalize.InPeriod(date, month, year) {
			// Out-of-period rows are expected in cumulative sheets; not an error.
			continue
		}

		valid = append(valid, ValidRow{Row: row, Index: idx, Date: *date})
	}

	for _, e := range errs {
		log.Warn().Str("sheet", s.Name).Int("row", e.Index).
			Str("column", e.Column).Msg(e.Reason)
	}

	return valid, errs, nil
}

func (s Schema) check(row Row) (column, reason string, ok bool) {
	for _, col := range s.Required {
		if strings.TrimSpace(row.Get(col)) == "" {
			return col, "missing required column", false
		}
	}
	for col, values := range s.Sentinels {
		cell := strings.TrimSpace(row.Get(col))
		for _, v := range values {
			if strings.EqualFold(cell, v) {
				return col, "sentinel row", false
			}
		}
	}
	return "", "", true
}
