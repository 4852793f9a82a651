package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ordersight/backend-go/internal/domain"
	"github.com/ordersight/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// groupExprs renders each grouping dimension as a SQL expression. Nulls
// collapse to the empty string so the aggregator can exclude unknown groups
// in one place.
var groupExprs = map[string]string{
	repository.DimensionPincode: "COALESCE(pincode, '')",
	repository.DimensionProduct: "COALESCE(product_name, '')",
	repository.DimensionPartner: "COALESCE(fulfillment_partner, '')",
	repository.DimensionDate:    "TO_CHAR(order_date, 'YYYY-MM-DD')",
}

type analyticsRepository struct {
	db *DB
}

func NewAnalyticsRepository(db *DB) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// buildFilterClause renders the optional report filters as AND conditions.
// The date range is inclusive start, exclusive end.
func buildFilterClause(filter domain.ReportFilter, startArg int) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := startArg

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("order_date >= $%d", arg))
		args = append(args, *filter.From)
		arg++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("order_date < $%d", arg))
		args = append(args, *filter.To)
		arg++
	}
	if len(filter.Products) > 0 {
		conditions = append(conditions, fmt.Sprintf("product_name = ANY($%d)", arg))
		args = append(args, pq.Array(filter.Products))
		arg++
	}
	if filter.Pincode != "" {
		conditions = append(conditions, fmt.Sprintf("pincode = $%d", arg))
		args = append(args, filter.Pincode)
		arg++
	}
	if filter.Partner != "" {
		conditions = append(conditions, fmt.Sprintf("fulfillment_partner = $%d", arg))
		args = append(args, filter.Partner)
		arg++
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(conditions, " AND "), args
}

// StatusCounts groups the filtered records by (dimension value, raw status).
// Classification into taxonomy buckets happens in the aggregator, keeping the
// status rules out of SQL.
func (r *analyticsRepository) StatusCounts(ctx context.Context, dimension string, filter domain.ReportFilter) ([]domain.StatusCount, error) {
	expr, ok := groupExprs[dimension]
	if !ok {
		return nil, fmt.Errorf("unknown grouping dimension: %s", dimension)
	}

	filterClause, filterArgs := buildFilterClause(filter, 1)
	query := fmt.Sprintf(`
		SELECT
			%s AS group_key,
			COALESCE(order_status, '') AS order_status,
			COUNT(*) AS orders,
			COALESCE(SUM(order_value), 0) AS total_value
		FROM orders
		WHERE TRUE %s
		GROUP BY 1, 2
	`, expr, filterClause)

	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	var rows []domain.StatusCount
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, filterArgs...); err != nil {
		return nil, fmt.Errorf("failed to fetch status counts: %w", err)
	}

	log.Debug().
		Str("dimension", dimension).
		Int("rows", len(rows)).
		Msg("analytics: status counts fetched")

	return rows, nil
}

// ProductPincodeCounts feeds the good/bad pincode classification: one row per
// (product, pincode, raw status).
func (r *analyticsRepository) ProductPincodeCounts(ctx context.Context, filter domain.ReportFilter) ([]domain.ProductPincodeCount, error) {
	filterClause, filterArgs := buildFilterClause(filter, 1)
	query := fmt.Sprintf(`
		SELECT
			COALESCE(product_name, '') AS product_name,
			COALESCE(pincode, '') AS pincode,
			COALESCE(order_status, '') AS order_status,
			COUNT(*) AS orders
		FROM orders
		WHERE TRUE %s
		GROUP BY 1, 2, 3
	`, filterClause)

	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	var rows []domain.ProductPincodeCount
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, filterArgs...); err != nil {
		return nil, fmt.Errorf("failed to fetch product/pincode counts: %w", err)
	}

	log.Debug().Int("rows", len(rows)).Msg("analytics: product/pincode counts fetched")

	return rows, nil
}

// NDROrders lists orders in the NDR family using the loose match (any status
// containing "ndr"), the tolerance the NDR follow-up view needs.
func (r *analyticsRepository) NDROrders(ctx context.Context, filter domain.ReportFilter) ([]domain.OrderRecord, error) {
	filterClause, filterArgs := buildFilterClause(filter, 1)

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT * FROM orders
		WHERE LOWER(COALESCE(order_status, '')) LIKE '%%ndr%%' %s
		ORDER BY order_date DESC, id
		LIMIT $%d OFFSET $%d
	`, filterClause, len(filterArgs)+1, len(filterArgs)+2)

	args := append(filterArgs, limit, offset)

	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	var records []domain.OrderRecord
	if err := sqlx.SelectContext(ctx, r.db, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch NDR orders: %w", err)
	}
	return records, nil
}
