// internal/api/handlers/label_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellerops/profitkpi/internal/service"
)

// LabelHandler serves the supplemental seller and staff reports. Each
// endpoint takes one uploaded workbook plus the month and year.
type LabelHandler struct {
	labels    *service.LabelService
	uploadDir string
}

func NewLabelHandler(labels *service.LabelService, uploadDir string) *LabelHandler {
	return &LabelHandler{labels: labels, uploadDir: uploadDir}
}

func (h *LabelHandler) BuyingLabel(c *gin.Context) {
	h.run(c, func(u *upload, month, year int) (any, error) {
		return h.labels.BuyingLabel(u.wb, month, year)
	})
}

func (h *LabelHandler) ScanLabel(c *gin.Context) {
	h.run(c, func(u *upload, month, year int) (any, error) {
		return h.labels.ScanLabel(u.wb, month, year)
	})
}

func (h *LabelHandler) Tracking(c *gin.Context) {
	h.run(c, func(u *upload, month, year int) (any, error) {
		total, err := h.labels.Tracking(u.wb, month, year)
		if err != nil {
			return nil, err
		}
		return gin.H{"total": total}, nil
	})
}

func (h *LabelHandler) ServiceStaff(c *gin.Context) {
	h.run(c, func(u *upload, month, year int) (any, error) {
		return h.labels.ServiceStaff(u.wb, month, year)
	})
}

func (h *LabelHandler) run(c *gin.Context, report func(u *upload, month, year int) (any, error)) {
	month, year, err := parsePeriod(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := openUpload(c, "file", h.uploadDir)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	defer u.cleanup()

	result, err := report(u, month, year)
	if err != nil {
		errorResponse(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
