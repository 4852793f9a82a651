package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ordersight/backend-go/internal/analytics"
	"github.com/ordersight/backend-go/internal/cache"
	"github.com/ordersight/backend-go/internal/domain"
	"github.com/ordersight/backend-go/internal/repository"
)

// ReportService serves the read path: grouped status counts from storage,
// folded through the central status taxonomy in memory.
type ReportService struct {
	analytics repository.AnalyticsRepository
	orders    repository.OrderRepository
	reports   cache.ReportCache
}

func NewReportService(
	analyticsRepo repository.AnalyticsRepository,
	orders repository.OrderRepository,
	reports cache.ReportCache,
) *ReportService {
	return &ReportService{
		analytics: analyticsRepo,
		orders:    orders,
		reports:   reports,
	}
}

// Summary returns the top-line KPIs for the filtered record set. Results are
// cached briefly; the cache is invalidated after every import and clear.
func (s *ReportService) Summary(ctx context.Context, filter domain.ReportFilter) (*domain.Summary, error) {
	if cached, hit, err := s.reports.GetSummary(ctx, filter); err != nil {
		log.Warn().Err(err).Msg("report cache read failed")
	} else if hit {
		return cached, nil
	}

	rows, err := s.analytics.StatusCounts(ctx, repository.DimensionDate, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load status counts: %w", err)
	}

	summary := analytics.Summarize(rows)

	if err := s.reports.SetSummary(ctx, filter, &summary); err != nil {
		log.Warn().Err(err).Msg("report cache write failed")
	}

	return &summary, nil
}

// GroupReport returns one metrics row per group value of the dimension. Date
// groups sort chronologically; every other dimension sorts busiest first.
func (s *ReportService) GroupReport(ctx context.Context, dimension string, filter domain.ReportFilter) ([]domain.GroupMetrics, error) {
	rows, err := s.analytics.StatusCounts(ctx, dimension, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load status counts: %w", err)
	}

	metrics := analytics.AggregateGroups(rows, dimension == repository.DimensionDate)
	return paginate(metrics, filter.Limit, filter.Offset), nil
}

// ClassifiedPincodes returns the systematically good and bad pincodes per
// product, per the median-volume eligibility rule.
func (s *ReportService) ClassifiedPincodes(ctx context.Context, filter domain.ReportFilter) (*domain.PincodeClassification, error) {
	rows, err := s.analytics.ProductPincodeCounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load product/pincode counts: %w", err)
	}

	classification := analytics.ClassifyPincodes(rows)
	return &classification, nil
}

// NDROrders lists orders whose raw status contains "ndr" in any casing.
func (s *ReportService) NDROrders(ctx context.Context, filter domain.ReportFilter) ([]domain.OrderRecord, error) {
	return s.analytics.NDROrders(ctx, filter)
}

// Orders is the paginated raw listing.
func (s *ReportService) Orders(ctx context.Context, limit, offset int) ([]domain.OrderRecord, int, error) {
	total, err := s.orders.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	records, err := s.orders.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return records, total, nil
}

func paginate(metrics []domain.GroupMetrics, limit, offset int) []domain.GroupMetrics {
	if offset > 0 {
		if offset >= len(metrics) {
			return []domain.GroupMetrics{}
		}
		metrics = metrics[offset:]
	}
	if limit > 0 && limit < len(metrics) {
		metrics = metrics[:limit]
	}
	return metrics
}
