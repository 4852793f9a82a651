package drive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ordersight/backend-go/internal/domain"
	"github.com/ordersight/backend-go/internal/service"
)

// IngestService pulls spreadsheet exports out of Google Drive and runs them
// through the same import pipeline as direct uploads.
type IngestService struct {
	driveService  *Service
	importService *service.ImportService
}

func NewIngestService(driveService *Service, importService *service.ImportService) *IngestService {
	return &IngestService{
		driveService:  driveService,
		importService: importService,
	}
}

// IngestFile downloads one Drive file and imports it.
func (s *IngestService) IngestFile(ctx context.Context, fileID string, opts service.ImportOptions) (*domain.ImportResult, error) {
	file, err := s.driveService.GetFile(fileID)
	if err != nil {
		return nil, err
	}
	if !file.IsSpreadsheet() {
		return nil, fmt.Errorf("file %s is not an importable spreadsheet", file.Name)
	}

	var buf bytes.Buffer
	if err := s.driveService.DownloadFile(file.ID, &buf); err != nil {
		return nil, err
	}

	return s.importService.Import(ctx, &buf, file.Name, opts)
}

// FolderResult summarizes the import of one file during a folder ingest.
type FolderResult struct {
	FileID   string               `json:"file_id"`
	FileName string               `json:"file_name"`
	Result   *domain.ImportResult `json:"result,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// IngestFolder imports every spreadsheet in a Drive folder. One failing file
// never stops the rest; its error is reported in its slot of the result list.
func (s *IngestService) IngestFolder(ctx context.Context, folderID string, opts service.ImportOptions) ([]FolderResult, error) {
	files, err := s.driveService.ListFiles(folderID)
	if err != nil {
		return nil, err
	}

	var results []FolderResult
	for _, f := range files {
		if !f.IsSpreadsheet() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		entry := FolderResult{FileID: f.ID, FileName: f.Name}

		var buf bytes.Buffer
		if err := s.driveService.DownloadFile(f.ID, &buf); err != nil {
			entry.Error = err.Error()
			log.Error().Err(err).Str("file", f.Name).Msg("drive download failed")
			results = append(results, entry)
			continue
		}

		result, err := s.importService.Import(ctx, &buf, f.Name, opts)
		if err != nil {
			entry.Error = err.Error()
			log.Error().Err(err).Str("file", f.Name).Msg("drive import failed")
		} else {
			entry.Result = result
		}
		results = append(results, entry)
	}

	return results, nil
}
