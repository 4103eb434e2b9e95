// internal/service/label_service.go
package service

import (
	"fmt"

	"github.com/sellerops/profitkpi/internal/channel"
	"github.com/sellerops/profitkpi/internal/domain"
)

// LabelService produces the supplemental seller and staff reports. Each
// report reads a single-purpose workbook whose table sits on the first
// sheet; the service-staff report spans the first three.
type LabelService struct{}

func NewLabelService() *LabelService {
	return &LabelService{}
}

func (s *LabelService) BuyingLabel(wb SheetReader, month, year int) ([]domain.SellerTotal, error) {
	rows, _, err := wb.Sheet("Buying Label", 0)
	if err != nil {
		return nil, err
	}
	return channel.BuyingLabel(rows, month, year)
}

func (s *LabelService) ScanLabel(wb SheetReader, month, year int) ([]domain.SellerTotal, error) {
	rows, _, err := wb.Sheet("Scan Label", 0)
	if err != nil {
		return nil, err
	}
	return channel.ScanLabel(rows, month, year)
}

func (s *LabelService) Tracking(wb SheetReader, month, year int) (float64, error) {
	rows, _, err := wb.Sheet("Tracking", 0)
	if err != nil {
		return 0, err
	}
	return channel.Tracking(rows, month, year)
}

// ServiceStaff reads the three staff sheets: per-row revenue minus cost,
// empty-package rows, and the pre-computed profit column.
func (s *LabelService) ServiceStaff(wb SheetReader, month, year int) ([]domain.StaffTotal, error) {
	sheets := make([]channel.StaffSheet, 0, 3)
	specs := []struct {
		role sheetRole
		cfg  channel.StaffSheet
	}{
		{sheetRole{"Staff", 0}, channel.StaffSheet{}},
		{sheetRole{"Empty Package", 1}, channel.StaffSheet{ProfitCol: "Profit", TypeCol: "Type_1", TypeValue: "Empty Package"}},
		{sheetRole{"Staff Extra", 2}, channel.StaffSheet{ProfitCol: "Profit_1"}},
	}
	for _, sp := range specs {
		rows, _, err := wb.Sheet(sp.role.name, sp.role.index)
		if err != nil {
			return nil, fmt.Errorf("staff sheet %q: %w", sp.role.name, err)
		}
		cfg := sp.cfg
		cfg.Rows = rows
		sheets = append(sheets, cfg)
	}
	return channel.ServiceStaff(sheets, month, year)
}
