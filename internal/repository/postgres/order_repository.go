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

var orderInsertColumns = []string{
	"order_id", "channel_order_id", "order_date", "channel_order_date",
	"added_on", "delivered_date", "rts_date", "order_status",
	"payment_method", "fulfillment_partner", "channel", "product_name",
	"sku", "quantity", "order_value", "product_value", "extra_charges",
	"shipping_charges", "discount", "total_amount", "cod_amount", "weight",
	"awb_number", "pincode", "city", "state", "country", "zone", "address",
	"consignee_name", "phone", "alternate_phone", "email", "tags",
}

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// InsertBatch writes one batch of records in a single multi-row statement
// inside one transaction. The batch commits or rolls back as a unit; a
// connection-level failure is retried once.
func (r *orderRepository) InsertBatch(ctx context.Context, records []domain.OrderRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query, args := buildOrderInsert(records)

	// Each attempt gets a fresh timeout so the retry is not charged for the
	// budget the failed attempt burned.
	err := r.db.WithTxRetry(ctx, func(tx *sqlx.Tx) error {
		qctx, cancel := r.db.QueryTimeout(ctx)
		defer cancel()
		_, err := tx.ExecContext(qctx, query, args...)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert order batch: %w", err)
	}

	return len(records), nil
}

func buildOrderInsert(records []domain.OrderRecord) (string, []interface{}) {
	var (
		sb   strings.Builder
		args = make([]interface{}, 0, len(records)*len(orderInsertColumns))
	)

	sb.WriteString("INSERT INTO orders (")
	sb.WriteString(strings.Join(orderInsertColumns, ", "))
	sb.WriteString(") VALUES ")

	placeholder := 1
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := range orderInsertColumns {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", placeholder)
			placeholder++
		}
		sb.WriteString(")")

		args = append(args,
			rec.OrderID, rec.ChannelOrderID, rec.OrderDate, rec.ChannelOrderDate,
			rec.AddedOn, rec.DeliveredDate, rec.RTSDate, rec.OrderStatus,
			rec.PaymentMethod, rec.FulfillmentPartner, rec.Channel, rec.ProductName,
			rec.SKU, rec.Quantity, rec.OrderValue, rec.ProductValue, rec.ExtraCharges,
			rec.ShippingCharges, rec.Discount, rec.TotalAmount, rec.CODAmount, rec.Weight,
			rec.AWBNumber, rec.Pincode, rec.City, rec.State, rec.Country, rec.Zone, rec.Address,
			rec.ConsigneeName, rec.Phone, rec.AlternatePhone, rec.Email, rec.Tags,
		)
	}

	return sb.String(), args
}

// ExistingOrderIDs returns the subset of the given external ids already
// present in storage.
func (r *orderRepository) ExistingOrderIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(ids) == 0 {
		return existing, nil
	}

	// Chunked so the IN-list parameter stays a sane size for huge imports.
	const chunkSize = 10000
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}

		var found []string
		query := `SELECT DISTINCT order_id FROM orders WHERE order_id = ANY($1)`
		qctx, cancel := r.db.QueryTimeout(ctx)
		err := sqlx.SelectContext(qctx, r.db, &found, query, pq.Array(ids[start:end]))
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to look up existing order ids: %w", err)
		}
		for _, id := range found {
			existing[id] = struct{}{}
		}
	}

	return existing, nil
}

// ClearAll removes every order record in one atomic statement so concurrent
// readers never observe a torn view between delete and reload.
func (r *orderRepository) ClearAll(ctx context.Context) error {
	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `TRUNCATE TABLE orders RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	return nil
}

func (r *orderRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]domain.OrderRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	var records []domain.OrderRecord
	query := `SELECT * FROM orders ORDER BY id LIMIT $1 OFFSET $2`
	if err := sqlx.SelectContext(ctx, r.db, &records, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return records, nil
}

// SuspendIndexes drops the secondary analytics indexes to trade read
// performance for write throughput during a large import.
func (r *orderRepository) SuspendIndexes(ctx context.Context) error {
	for _, idx := range analyticsIndexes {
		qctx, cancel := r.db.QueryTimeout(ctx)
		_, err := r.db.ExecContext(qctx, fmt.Sprintf("DROP INDEX IF EXISTS %s", idx.name))
		cancel()
		if err != nil {
			return fmt.Errorf("failed to drop index %s: %w", idx.name, err)
		}
	}
	log.Info().Int("indexes", len(analyticsIndexes)).Msg("orders: analytics indexes suspended for bulk load")
	return nil
}

// RebuildIndexes recreates whatever SuspendIndexes dropped. Idempotent, so a
// rebuild after a partial suspend is safe.
func (r *orderRepository) RebuildIndexes(ctx context.Context) error {
	for _, idx := range analyticsIndexes {
		qctx, cancel := r.db.QueryTimeout(ctx)
		_, err := r.db.ExecContext(qctx, idx.ddl)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to rebuild index %s: %w", idx.name, err)
		}
	}
	log.Info().Int("indexes", len(analyticsIndexes)).Msg("orders: analytics indexes rebuilt")
	return nil
}
