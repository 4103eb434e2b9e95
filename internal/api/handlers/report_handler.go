// internal/api/handlers/report_handler.go
package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sellerops/profitkpi/internal/cache"
	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/service"
)

type ReportHandler struct {
	profits   *service.ProfitService
	exports   *service.ExportService
	uploadDir string
}

func NewReportHandler(profits *service.ProfitService, exports *service.ExportService, uploadDir string) *ReportHandler {
	return &ReportHandler{profits: profits, exports: exports, uploadDir: uploadDir}
}

// Aggregate computes the monthly profit aggregate from an uploaded combined
// workbook (file) and returns it as JSON. Extra per-shop Etsy workbooks may
// be submitted under etsy_files; they are folded into the Etsy channel.
func (h *ReportHandler) Aggregate(c *gin.Context) {
	agg, ok := h.computeAggregate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, agg)
}

// ExportSummary computes the aggregate and streams the generated summary
// workbook back as an attachment.
func (h *ReportHandler) ExportSummary(c *gin.Context) {
	agg, ok := h.computeAggregate(c)
	if !ok {
		return
	}

	path, err := h.exports.ProfitSummary(c.Request.Context(), agg)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to export profit summary: "+err.Error())
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// ListArchive lists the exported workbooks held in the archive.
func (h *ReportHandler) ListArchive(c *gin.Context) {
	objects, err := h.exports.ArchivedExports(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to list archive: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, objects)
}

// DownloadArchive fetches one archived workbook by name and streams it back.
func (h *ReportHandler) DownloadArchive(c *gin.Context) {
	name := c.Param("name")
	path, err := h.exports.FetchArchived(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusNotFound, "archived export not found: "+name)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (h *ReportHandler) computeAggregate(c *gin.Context) (*domain.Aggregate, bool) {
	month, year, err := parsePeriod(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return nil, false
	}

	u, err := openUpload(c, "file", h.uploadDir)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	defer u.cleanup()

	shops, err := openUploads(c, "etsy_files", h.uploadDir)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	defer func() {
		for _, shop := range shops {
			shop.cleanup()
		}
	}()

	// The cache digest covers every input workbook, so the same combined
	// file with a different shop set never collides.
	digests := []string{u.digest}
	readers := make([]service.SheetReader, 0, len(shops))
	for _, shop := range shops {
		readers = append(readers, shop.wb)
		digests = append(digests, shop.digest)
	}
	digest := u.digest
	if len(shops) > 0 {
		digest = cache.Digest([]byte(strings.Join(digests, ":")))
	}

	agg, err := h.profits.MonthlyAggregateShops(c.Request.Context(), u.wb, readers, month, year, digest)
	if err != nil {
		errorResponse(c, statusFor(err), err.Error())
		return nil, false
	}
	return agg, true
}
