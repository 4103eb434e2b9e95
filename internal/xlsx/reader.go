// internal/xlsx/reader.go
package xlsx

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/sellerops/profitkpi/internal/sheet"
)

// Workbook wraps an open xlsx file and hands sheets out as header-keyed rows.
type Workbook struct {
	f *excelize.File
}

// Open opens the workbook at path. The caller must Close it.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames lists the workbook's sheets in file order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Sheet reads one sheet as rows keyed by the first row's headers. The sheet
// is selected by exact name first, falling back to the positional index when
// the name is absent. Returns the resolved sheet name alongside the rows.
func (w *Workbook) Sheet(name string, index int) ([]sheet.Row, string, error) {
	resolved, err := w.resolve(name, index)
	if err != nil {
		return nil, "", err
	}

	raw, err := w.f.GetRows(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read rows from sheet %s: %w", resolved, err)
	}
	if len(raw) == 0 {
		return nil, resolved, nil
	}

	headers := raw[0]
	rows := make([]sheet.Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(sheet.Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, resolved, nil
}

func (w *Workbook) resolve(name string, index int) (string, error) {
	sheets := w.f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	if index < 0 || index >= len(sheets) {
		return "", fmt.Errorf("sheet %q not found and index %d out of range (%d sheets)", name, index, len(sheets))
	}
	return sheets[index], nil
}

// sortedKeys gives map-backed sheets a stable row order on export.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
