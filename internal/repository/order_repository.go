package repository

import (
	"context"

	"github.com/ordersight/backend-go/internal/domain"
)

// OrderRepository is the storage surface the ingestion pipeline writes
// through. Implementations must make InsertBatch atomic per call: a failed
// batch leaves no rows behind.
type OrderRepository interface {
	InsertBatch(ctx context.Context, records []domain.OrderRecord) (int, error)
	ExistingOrderIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
	ClearAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit, offset int) ([]domain.OrderRecord, error)

	// SuspendIndexes drops the secondary analytics indexes ahead of a large
	// import; RebuildIndexes recreates them. Callers must guarantee the
	// rebuild runs on every exit path once a suspend succeeded.
	SuspendIndexes(ctx context.Context) error
	RebuildIndexes(ctx context.Context) error
}

// ImportJobRepository persists ingestion bookkeeping. Jobs are written twice:
// once at pipeline start, once at completion.
type ImportJobRepository interface {
	Create(ctx context.Context, job *domain.ImportJob) error
	Finish(ctx context.Context, job *domain.ImportJob) error
	List(ctx context.Context, limit, offset int) ([]domain.ImportJob, error)
}

// Grouping dimensions understood by the analytics queries.
const (
	DimensionPincode = "pincode"
	DimensionProduct = "product"
	DimensionPartner = "partner"
	DimensionDate    = "date"
)

// AnalyticsRepository serves the read path: grouped raw status counts that the
// aggregator folds through the status taxonomy.
type AnalyticsRepository interface {
	StatusCounts(ctx context.Context, dimension string, filter domain.ReportFilter) ([]domain.StatusCount, error)
	ProductPincodeCounts(ctx context.Context, filter domain.ReportFilter) ([]domain.ProductPincodeCount, error)
	NDROrders(ctx context.Context, filter domain.ReportFilter) ([]domain.OrderRecord, error)
}
