package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ordersight/backend-go/internal/cache"
	"github.com/ordersight/backend-go/internal/config"
	"github.com/ordersight/backend-go/internal/domain"
)

type fakeOrderStore struct {
	records     []domain.OrderRecord
	failBatches map[int]bool
	batchCalls  int
	cleared     bool
	suspended   bool
	rebuilt     bool
}

func (f *fakeOrderStore) InsertBatch(ctx context.Context, records []domain.OrderRecord) (int, error) {
	idx := f.batchCalls
	f.batchCalls++
	if f.failBatches[idx] {
		return 0, errors.New("connection reset by peer")
	}
	f.records = append(f.records, records...)
	return len(records), nil
}

func (f *fakeOrderStore) ExistingOrderIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	existing := make(map[string]struct{})
	for _, rec := range f.records {
		if rec.OrderID == nil {
			continue
		}
		if _, ok := want[*rec.OrderID]; ok {
			existing[*rec.OrderID] = struct{}{}
		}
	}
	return existing, nil
}

func (f *fakeOrderStore) ClearAll(ctx context.Context) error {
	f.records = nil
	f.cleared = true
	return nil
}

func (f *fakeOrderStore) Count(ctx context.Context) (int, error) {
	return len(f.records), nil
}

func (f *fakeOrderStore) List(ctx context.Context, limit, offset int) ([]domain.OrderRecord, error) {
	return f.records, nil
}

func (f *fakeOrderStore) SuspendIndexes(ctx context.Context) error {
	f.suspended = true
	return nil
}

func (f *fakeOrderStore) RebuildIndexes(ctx context.Context) error {
	f.rebuilt = true
	return nil
}

type fakeJobStore struct {
	created  int
	finished []domain.ImportJob
}

func (f *fakeJobStore) Create(ctx context.Context, job *domain.ImportJob) error {
	f.created++
	job.ID = int64(f.created)
	return nil
}

func (f *fakeJobStore) Finish(ctx context.Context, job *domain.ImportJob) error {
	f.finished = append(f.finished, *job)
	return nil
}

func (f *fakeJobStore) List(ctx context.Context, limit, offset int) ([]domain.ImportJob, error) {
	return f.finished, nil
}

func newTestService(orders *fakeOrderStore, jobs *fakeJobStore, cfg config.ImportConfig) *ImportService {
	return NewImportService(orders, jobs, cache.NewNoopReportCache(), nil, cfg)
}

func defaultImportConfig() config.ImportConfig {
	return config.ImportConfig{
		BatchSize:       1000,
		LargeImportRows: 50000,
		SkipDuplicates:  true,
	}
}

const sampleCSV = "Order ID,Order Date,Status,Order Value,Product Name,Pincode\n" +
	"A1,2024-01-01,Delivered,100,Blue Mug,110001\n" +
	"A2,2024-01-01,RTO,50,Blue Mug,110002\n" +
	"A3,2024-01-02,Cancelled,75,Red Mug,560001\n"

func TestImportInsertsAllRows(t *testing.T) {
	orders := &fakeOrderStore{}
	jobs := &fakeJobStore{}
	svc := newTestService(orders, jobs, defaultImportConfig())

	result, err := svc.Import(context.Background(), strings.NewReader(sampleCSV), "orders.csv", ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if result.TotalRows != 3 || result.Inserted != 3 || result.Skipped != 0 || result.Errors != 0 {
		t.Errorf("result = %+v, want 3 inserted", result)
	}
	if result.Status != domain.ImportStatusSuccess {
		t.Errorf("status = %s, want success", result.Status)
	}
	if len(orders.records) != 3 {
		t.Errorf("store has %d records, want 3", len(orders.records))
	}
	if len(jobs.finished) != 1 || jobs.finished[0].Status != domain.ImportStatusSuccess {
		t.Errorf("job not finalized as success: %+v", jobs.finished)
	}
}

func TestImportIsIdempotentOnOrderID(t *testing.T) {
	orders := &fakeOrderStore{}
	jobs := &fakeJobStore{}
	svc := newTestService(orders, jobs, defaultImportConfig())

	ctx := context.Background()
	if _, err := svc.Import(ctx, strings.NewReader(sampleCSV), "orders.csv", ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	result, err := svc.Import(ctx, strings.NewReader(sampleCSV), "orders.csv", ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	if result.Inserted != 0 || result.Skipped != 3 {
		t.Errorf("re-import = %+v, want 0 inserted / 3 skipped", result)
	}
	if len(orders.records) != 3 {
		t.Errorf("store has %d records after re-import, want 3", len(orders.records))
	}
}

func TestImportContinuesPastFailedBatch(t *testing.T) {
	orders := &fakeOrderStore{failBatches: map[int]bool{1: true}}
	jobs := &fakeJobStore{}
	svc := newTestService(orders, jobs, defaultImportConfig())

	result, err := svc.Import(context.Background(), strings.NewReader(sampleCSV), "orders.csv", ImportOptions{BatchSize: 1})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if result.Inserted != 2 || result.Errors != 1 {
		t.Errorf("result = %+v, want 2 inserted / 1 error", result)
	}
	if result.Status != domain.ImportStatusPartial {
		t.Errorf("status = %s, want partial", result.Status)
	}
	if orders.batchCalls != 3 {
		t.Errorf("batch calls = %d, want 3 (loader must not stop at the failure)", orders.batchCalls)
	}
}

func TestImportAllBatchesFailing(t *testing.T) {
	orders := &fakeOrderStore{failBatches: map[int]bool{0: true, 1: true, 2: true}}
	jobs := &fakeJobStore{}
	svc := newTestService(orders, jobs, defaultImportConfig())

	result, err := svc.Import(context.Background(), strings.NewReader(sampleCSV), "orders.csv", ImportOptions{BatchSize: 1})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if result.Status != domain.ImportStatusFailed {
		t.Errorf("status = %s, want failed when nothing was inserted", result.Status)
	}
	if result.Errors != 3 {
		t.Errorf("errors = %d, want 3", result.Errors)
	}
}

func TestImportClearExisting(t *testing.T) {
	orders := &fakeOrderStore{}
	jobs := &fakeJobStore{}
	svc := newTestService(orders, jobs, defaultImportConfig())

	ctx := context.Background()
	if _, err := svc.Import(ctx, strings.NewReader(sampleCSV), "orders.csv", ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	result, err := svc.Import(ctx, strings.NewReader(sampleCSV), "orders.csv", ImportOptions{ClearExisting: true})
	if err != nil {
		t.Fatalf("clearing import: %v", err)
	}

	if !orders.cleared {
		t.Error("ClearAll was not called")
	}
	if result.Inserted != 3 || result.Skipped != 0 {
		t.Errorf("result = %+v, want full re-insert after clear", result)
	}
	if len(orders.records) != 3 {
		t.Errorf("store has %d records, want 3", len(orders.records))
	}
}

func TestImportSuspendsIndexesForLargeImports(t *testing.T) {
	orders := &fakeOrderStore{}
	jobs := &fakeJobStore{}
	cfg := defaultImportConfig()
	cfg.LargeImportRows = 2
	svc := newTestService(orders, jobs, cfg)

	if _, err := svc.Import(context.Background(), strings.NewReader(sampleCSV), "orders.csv", ImportOptions{}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if !orders.suspended {
		t.Error("indexes were not suspended for a large import")
	}
	if !orders.rebuilt {
		t.Error("indexes were not rebuilt after the import")
	}
}

func TestImportRebuildsIndexesAfterFailures(t *testing.T) {
	orders := &fakeOrderStore{failBatches: map[int]bool{0: true, 1: true, 2: true}}
	jobs := &fakeJobStore{}
	cfg := defaultImportConfig()
	cfg.LargeImportRows = 2
	svc := newTestService(orders, jobs, cfg)

	if _, err := svc.Import(context.Background(), strings.NewReader(sampleCSV), "orders.csv", ImportOptions{BatchSize: 1}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if !orders.rebuilt {
		t.Error("index rebuild must run even when every batch fails")
	}
}

func TestImportUnreadableFile(t *testing.T) {
	orders := &fakeOrderStore{}
	jobs := &fakeJobStore{}
	svc := newTestService(orders, jobs, defaultImportConfig())

	_, err := svc.Import(context.Background(), strings.NewReader(""), "empty.csv", ImportOptions{})
	if err == nil {
		t.Fatal("expected an error for an unreadable file")
	}
	if !errors.Is(err, ErrUnreadableFile) {
		t.Errorf("err = %v, want ErrUnreadableFile", err)
	}
	if jobs.created != 0 {
		t.Errorf("no job should be recorded for an unreadable file, got %d", jobs.created)
	}
}

func TestImportKeepDuplicatesOption(t *testing.T) {
	orders := &fakeOrderStore{}
	jobs := &fakeJobStore{}
	svc := newTestService(orders, jobs, defaultImportConfig())

	ctx := context.Background()
	if _, err := svc.Import(ctx, strings.NewReader(sampleCSV), "orders.csv", ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	keep := false
	result, err := svc.Import(ctx, strings.NewReader(sampleCSV), "orders.csv", ImportOptions{SkipDuplicates: &keep})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	if result.Inserted != 3 || result.Skipped != 0 {
		t.Errorf("result = %+v, want duplicates inserted when skipping is off", result)
	}
	if len(orders.records) != 6 {
		t.Errorf("store has %d records, want 6", len(orders.records))
	}
}

func TestClearOrders(t *testing.T) {
	orders := &fakeOrderStore{records: []domain.OrderRecord{{Quantity: 1}}}
	jobs := &fakeJobStore{}
	svc := newTestService(orders, jobs, defaultImportConfig())

	if err := svc.ClearOrders(context.Background()); err != nil {
		t.Fatalf("ClearOrders: %v", err)
	}
	if !orders.cleared || len(orders.records) != 0 {
		t.Error("orders were not cleared")
	}
}
