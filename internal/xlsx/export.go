// internal/xlsx/export.go
package xlsx

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/sellerops/profitkpi/internal/domain"
)

// ExportProfitSummary writes the monthly aggregate as
// Profit_Summary_YYYY_MM.xlsx with Designer_Profit, RD_Profit and
// Platform_Summary sheets. Returns the written file path.
func ExportProfitSummary(agg *domain.Aggregate, dir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeProfitSheet(f, "Designer_Profit", "DesignerID", agg.DesignerProfit); err != nil {
		return "", err
	}
	if err := writeProfitSheet(f, "RD_Profit", "RAndDID", agg.RDProfit); err != nil {
		return "", err
	}

	if _, err := f.NewSheet("Platform_Summary"); err != nil {
		return "", err
	}
	summary := [][]interface{}{{"Platform", "Profit"}}
	for _, ch := range domain.Channels() {
		summary = append(summary, []interface{}{string(ch), agg.PlatformSummary[ch]})
	}
	summary = append(summary, []interface{}{"TOTAL", agg.TotalProfit})
	if err := writeRows(f, "Platform_Summary", summary); err != nil {
		return "", err
	}

	// The default sheet excelize creates is not part of the report.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("Profit_Summary_%d_%02d.xlsx", agg.Year, agg.Month))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ExportKPIReport writes the KPI rows as KPI_Result_YYYY_MM.xlsx with a
// single KPI sheet. Returns the written file path.
func ExportKPIReport(results []domain.KPIResult, month, year int, dir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("KPI"); err != nil {
		return "", err
	}
	rows := [][]interface{}{{"PIC", "PIC_Key", "Position", "Profit", "Target", "KPI"}}
	for _, r := range results {
		rows = append(rows, []interface{}{r.PIC, r.PICKey, r.Position, r.Profit, r.Target, r.KPI})
	}
	if err := writeRows(f, "KPI", rows); err != nil {
		return "", err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("KPI_Result_%d_%02d.xlsx", year, month))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func writeProfitSheet(f *excelize.File, name, idHeader string, profits domain.ProfitMap) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	rows := [][]interface{}{{idHeader, "Profit"}}
	for _, id := range sortedKeys(profits) {
		rows = append(rows, []interface{}{id, profits[id]})
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
