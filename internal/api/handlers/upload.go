// internal/api/handlers/upload.go
package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/attribution"
	"github.com/sellerops/profitkpi/internal/cache"
	"github.com/sellerops/profitkpi/internal/kpi"
	"github.com/sellerops/profitkpi/internal/sheet"
	"github.com/sellerops/profitkpi/internal/xlsx"
)

// upload is one received workbook: the open file, its content digest for the
// report cache, and a cleanup that closes the workbook and removes the temp
// file.
type upload struct {
	wb      *xlsx.Workbook
	digest  string
	cleanup func()
}

// openUpload saves the multipart file under field to uploadDir and opens it
// as a workbook. Callers must defer u.cleanup().
func openUpload(c *gin.Context, field, uploadDir string) (*upload, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing form file %q", field)
	}
	return openFileHeader(c, file, uploadDir)
}

// openUploads opens every file submitted under field. An absent field is not
// an error, it just yields no uploads. Callers must clean up every returned
// upload.
func openUploads(c *gin.Context, field, uploadDir string) ([]*upload, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	files := form.File[field]
	ups := make([]*upload, 0, len(files))
	for _, file := range files {
		u, err := openFileHeader(c, file, uploadDir)
		if err != nil {
			for _, opened := range ups {
				opened.cleanup()
			}
			return nil, err
		}
		ups = append(ups, u)
	}
	return ups, nil
}

func openFileHeader(c *gin.Context, file *multipart.FileHeader, uploadDir string) (*upload, error) {
	path := filepath.Join(uploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return nil, fmt.Errorf("failed to save uploaded file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		removeTemp(path)
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	wb, err := xlsx.Open(path)
	if err != nil {
		removeTemp(path)
		return nil, fmt.Errorf("not a readable xlsx workbook: %w", err)
	}

	return &upload{
		wb:     wb,
		digest: cache.Digest(data),
		cleanup: func() {
			if err := wb.Close(); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("failed to close workbook")
			}
			removeTemp(path)
		},
	}, nil
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove uploaded file")
	}
}

// parsePeriod reads the month and year query parameters.
func parsePeriod(c *gin.Context) (int, int, error) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("month must be a number between 1 and 12")
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, errors.New("year must be a four digit number")
	}
	return month, year, nil
}

// statusFor maps domain errors onto HTTP statuses. Bad input (empty or
// missing sheets, no targets for the period) is the caller's problem.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sheet.ErrEmptySheet),
		errors.Is(err, attribution.ErrMissingChannels),
		errors.Is(err, kpi.ErrNoTargets):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
