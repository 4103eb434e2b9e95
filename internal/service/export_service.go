// internal/service/export_service.go
package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/domain"
	"github.com/sellerops/profitkpi/internal/storage"
	"github.com/sellerops/profitkpi/internal/xlsx"
)

// ErrArchiveDisabled means no archive backend is configured for this
// deployment; archive browsing endpoints surface it to the caller.
var ErrArchiveDisabled = errors.New("export archive is not configured")

const archivePrefix = "exports/"

// ExportService writes report workbooks to the export directory and pushes a
// copy to the archive when one is configured.
type ExportService struct {
	dir     string
	archive storage.ObjectStorage // optional
}

func NewExportService(dir string, archive storage.ObjectStorage) *ExportService {
	return &ExportService{dir: dir, archive: archive}
}

// ProfitSummary exports the aggregate workbook and returns its path.
func (s *ExportService) ProfitSummary(ctx context.Context, agg *domain.Aggregate) (string, error) {
	path, err := xlsx.ExportProfitSummary(agg, s.dir)
	if err != nil {
		return "", err
	}
	s.archiveFile(ctx, path)
	return path, nil
}

// KPIReport exports the KPI workbook and returns its path.
func (s *ExportService) KPIReport(ctx context.Context, results []domain.KPIResult, month, year int) (string, error) {
	path, err := xlsx.ExportKPIReport(results, month, year, s.dir)
	if err != nil {
		return "", err
	}
	s.archiveFile(ctx, path)
	return path, nil
}

// ArchivedExports lists the workbooks previously pushed to the archive.
func (s *ExportService) ArchivedExports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.ListObjects(ctx, archivePrefix)
}

// FetchArchived downloads one archived workbook back into the export
// directory and returns its local path. name is a bare file name; any path
// segments are stripped.
func (s *ExportService) FetchArchived(ctx context.Context, name string) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}
	name = filepath.Base(name)
	dest := filepath.Join(s.dir, name)
	if err := s.archive.DownloadObject(ctx, archivePrefix+name, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// archiveFile is best effort: the export already succeeded locally and an
// archive outage should not fail the request.
func (s *ExportService) archiveFile(ctx context.Context, path string) {
	if s.archive == nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to read export for archiving")
		return
	}
	key := archivePrefix + filepath.Base(path)
	if err := s.archive.UploadObject(ctx, key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to archive export")
		return
	}
	log.Info().Str("key", key).Msg("export archived")
}
