// internal/api/handlers/kpi_handler.go
package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/service"
)

type KPIHandler struct {
	kpis      *service.KPIService
	exports   *service.ExportService
	uploadDir string
}

func NewKPIHandler(kpis *service.KPIService, exports *service.ExportService, uploadDir string) *KPIHandler {
	return &KPIHandler{kpis: kpis, exports: exports, uploadDir: uploadDir}
}

// Report computes the KPI report from an uploaded profit workbook
// (profit_file) and target workbook (target_file). When target_file is
// omitted, previously stored targets for the period are used instead.
func (h *KPIHandler) Report(c *gin.Context) {
	results, agg, ok := h.computeReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":   results,
		"aggregate": agg,
	})
}

// ExportReport computes the KPI report and streams the generated workbook
// back as an attachment.
func (h *KPIHandler) ExportReport(c *gin.Context) {
	results, agg, ok := h.computeReport(c)
	if !ok {
		return
	}

	path, err := h.exports.KPIReport(c.Request.Context(), results, agg.Month, agg.Year)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to export kpi report: "+err.Error())
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// UploadTargets parses a target workbook and persists its rows.
func (h *KPIHandler) UploadTargets(c *gin.Context) {
	u, err := openUpload(c, "file", h.uploadDir)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	defer u.cleanup()

	targets, err := h.kpis.ParseTargetWorkbook(c.Request.Context(), u.wb)
	if err != nil {
		errorResponse(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(targets)})
}

func (h *KPIHandler) computeReport(c *gin.Context) ([]domain.KPIResult, *domain.Aggregate, bool) {
	month, year, err := parsePeriod(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	profit, err := openUpload(c, "profit_file", h.uploadDir)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	defer profit.cleanup()

	var (
		results []domain.KPIResult
		agg     *domain.Aggregate
	)
	if _, ferr := c.FormFile("target_file"); ferr == nil {
		target, err := openUpload(c, "target_file", h.uploadDir)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return nil, nil, false
		}
		defer target.cleanup()
		results, agg, err = h.kpis.Report(c.Request.Context(), profit.wb, target.wb, month, year, profit.digest)
		if err != nil {
			errorResponse(c, statusFor(err), err.Error())
			return nil, nil, false
		}
	} else {
		results, agg, err = h.kpis.StoredReport(c.Request.Context(), profit.wb, month, year, profit.digest)
		if err != nil {
			errorResponse(c, statusFor(err), err.Error())
			return nil, nil, false
		}
	}
	return results, agg, true
}
