package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ordersight/backend-go/internal/cache"
	"github.com/ordersight/backend-go/internal/config"
	"github.com/ordersight/backend-go/internal/domain"
	"github.com/ordersight/backend-go/internal/importer"
	"github.com/ordersight/backend-go/internal/repository"
	"github.com/ordersight/backend-go/internal/storage"
)

// ErrUnreadableFile marks uploads that could not be parsed at all. Handlers
// map it to a client error; everything else is a server-side failure.
var ErrUnreadableFile = errors.New("unreadable spreadsheet")

// ImportOptions are per-request overrides for one import run. Zero values fall
// back to the configured defaults.
type ImportOptions struct {
	ClearExisting  bool
	SkipDuplicates *bool
	BatchSize      int
}

type ImportService struct {
	orders   repository.OrderRepository
	jobs     repository.ImportJobRepository
	reports  cache.ReportCache
	archive  storage.ObjectStorage
	defaults config.ImportConfig
}

func NewImportService(
	orders repository.OrderRepository,
	jobs repository.ImportJobRepository,
	reports cache.ReportCache,
	archive storage.ObjectStorage,
	defaults config.ImportConfig,
) *ImportService {
	return &ImportService{
		orders:   orders,
		jobs:     jobs,
		reports:  reports,
		archive:  archive,
		defaults: defaults,
	}
}

// Import runs the full pipeline for one uploaded spreadsheet: parse, assemble,
// optional clear, duplicate filter, batched inserts, job bookkeeping. A failed
// batch never aborts the run; its rows are counted as errors and the loader
// moves on. The returned result is meaningful even when err is non-nil only
// for job-level failures (unreadable file, unreachable store).
func (s *ImportService) Import(ctx context.Context, r io.Reader, filename string, opts ImportOptions) (*domain.ImportResult, error) {
	started := time.Now()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	headers, rows, err := importer.ReadTable(bytes.NewReader(raw), filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, filename, err)
	}

	records := importer.AssembleAll(headers, rows)

	job := &domain.ImportJob{
		FileName:  filename,
		TotalRows: len(records),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record import job: %w", err)
	}

	result := &domain.ImportResult{TotalRows: len(records)}

	if opts.ClearExisting {
		if err := s.orders.ClearAll(ctx); err != nil {
			s.finishJob(ctx, job, result, domain.ImportStatusFailed)
			return nil, fmt.Errorf("failed to clear existing orders: %w", err)
		}
	}

	records, skipped, err := s.filterDuplicates(ctx, records, opts)
	if err != nil {
		s.finishJob(ctx, job, result, domain.ImportStatusFailed)
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	result.Skipped = skipped

	s.loadBatches(ctx, records, s.batchSize(opts), result)

	status := domain.ImportStatusSuccess
	switch {
	case result.Errors > 0 && result.Inserted == 0:
		status = domain.ImportStatusFailed
	case result.Errors > 0:
		status = domain.ImportStatusPartial
	}
	result.Status = status
	result.DurationMs = time.Since(started).Milliseconds()

	s.finishJob(ctx, job, result, status)

	if err := s.reports.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate report cache")
	}

	s.archiveUpload(ctx, filename, raw)

	log.Info().
		Str("file", filename).
		Int("total_rows", result.TotalRows).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Int("errors", result.Errors).
		Str("status", status).
		Int64("duration_ms", result.DurationMs).
		Msg("import finished")

	return result, nil
}

// ClearOrders removes every stored order and invalidates cached reports.
func (s *ImportService) ClearOrders(ctx context.Context) error {
	if err := s.orders.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	if err := s.reports.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate report cache")
	}
	return nil
}

// Jobs lists recent import jobs, newest first.
func (s *ImportService) Jobs(ctx context.Context, limit, offset int) ([]domain.ImportJob, error) {
	return s.jobs.List(ctx, limit, offset)
}

func (s *ImportService) batchSize(opts ImportOptions) int {
	size := opts.BatchSize
	if size <= 0 {
		size = s.defaults.BatchSize
	}
	if size <= 0 {
		size = 1000
	}
	return size
}

func (s *ImportService) skipDuplicates(opts ImportOptions) bool {
	if opts.SkipDuplicates != nil {
		return *opts.SkipDuplicates
	}
	return s.defaults.SkipDuplicates
}

// filterDuplicates drops records whose external order id already exists in the
// store. Records without an order id are always kept.
func (s *ImportService) filterDuplicates(ctx context.Context, records []domain.OrderRecord, opts ImportOptions) ([]domain.OrderRecord, int, error) {
	if !s.skipDuplicates(opts) || opts.ClearExisting || len(records) == 0 {
		return records, 0, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.OrderID != nil && *rec.OrderID != "" {
			ids = append(ids, *rec.OrderID)
		}
	}
	if len(ids) == 0 {
		return records, 0, nil
	}

	existing, err := s.orders.ExistingOrderIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	if len(existing) == 0 {
		return records, 0, nil
	}

	kept := records[:0]
	skipped := 0
	for _, rec := range records {
		if rec.OrderID != nil {
			if _, dup := existing[*rec.OrderID]; dup {
				skipped++
				continue
			}
		}
		kept = append(kept, rec)
	}
	return kept, skipped, nil
}

// loadBatches inserts records in bounded transactional batches. Secondary
// indexes are suspended for large imports; the rebuild runs on every exit
// path, including panics, on a context that survives request cancellation.
func (s *ImportService) loadBatches(ctx context.Context, records []domain.OrderRecord, batchSize int, result *domain.ImportResult) {
	if len(records) == 0 {
		return
	}

	if s.defaults.LargeImportRows > 0 && len(records) >= s.defaults.LargeImportRows {
		if err := s.orders.SuspendIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to suspend indexes, importing with indexes in place")
		} else {
			defer func() {
				if err := s.orders.RebuildIndexes(context.WithoutCancel(ctx)); err != nil {
					log.Error().Err(err).Msg("failed to rebuild indexes after import")
				}
			}()
		}
	}

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		inserted, err := s.orders.InsertBatch(ctx, batch)
		if err != nil {
			result.Errors += len(batch)
			log.Error().Err(err).
				Int("batch_start", start).
				Int("batch_rows", len(batch)).
				Msg("batch insert failed, continuing with next batch")
			continue
		}
		result.Inserted += inserted
	}
}

func (s *ImportService) finishJob(ctx context.Context, job *domain.ImportJob, result *domain.ImportResult, status string) {
	job.Inserted = result.Inserted
	job.Skipped = result.Skipped
	job.Errors = result.Errors
	job.Status = status
	if err := s.jobs.Finish(ctx, job); err != nil {
		log.Warn().Err(err).Int64("job_id", job.ID).Msg("failed to finalize import job")
	}
}

// archiveUpload keeps the raw spreadsheet in object storage. Best effort; an
// archive failure never affects the import result.
func (s *ImportService) archiveUpload(ctx context.Context, filename string, raw []byte) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("uploads/%s/%s", time.Now().UTC().Format("2006-01-02"), filename)
	if err := s.archive.UploadObject(ctx, key, raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to archive upload")
	}
}
