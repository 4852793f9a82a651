package postgres

import (
	"context"
	"fmt"
)

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
    id                  BIGSERIAL PRIMARY KEY,
    order_id            TEXT,
    channel_order_id    TEXT,
    order_date          DATE NOT NULL,
    channel_order_date  TIMESTAMPTZ,
    added_on            TIMESTAMPTZ,
    delivered_date      TIMESTAMPTZ,
    rts_date            TIMESTAMPTZ,
    order_status        TEXT,
    payment_method      TEXT,
    fulfillment_partner TEXT,
    channel             TEXT,
    product_name        TEXT,
    sku                 TEXT,
    quantity            INTEGER NOT NULL DEFAULT 1,
    order_value         NUMERIC(14,2),
    product_value       NUMERIC(14,2),
    extra_charges       NUMERIC(14,2),
    shipping_charges    NUMERIC(14,2),
    discount            NUMERIC(14,2),
    total_amount        NUMERIC(14,2),
    cod_amount          NUMERIC(14,2),
    weight              NUMERIC(10,3),
    awb_number          TEXT,
    pincode             TEXT,
    city                TEXT,
    state               TEXT,
    country             TEXT,
    zone                TEXT,
    address             TEXT,
    consignee_name      TEXT,
    phone               TEXT,
    alternate_phone     TEXT,
    email               TEXT,
    tags                TEXT,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createImportJobsTable = `
CREATE TABLE IF NOT EXISTS import_jobs (
    id          BIGSERIAL PRIMARY KEY,
    file_name   TEXT NOT NULL,
    total_rows  INTEGER NOT NULL DEFAULT 0,
    inserted    INTEGER NOT NULL DEFAULT 0,
    skipped     INTEGER NOT NULL DEFAULT 0,
    errors      INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT 'failed',
    started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    finished_at TIMESTAMPTZ
)`

type indexDef struct {
	name string
	ddl  string
}

// analyticsIndexes are the secondary indexes the aggregation queries lean on.
// These are the ones a large import suspends and rebuilds; the order_id index
// stays up because duplicate detection runs before the batch loop.
var analyticsIndexes = []indexDef{
	{"idx_orders_order_date", "CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date)"},
	{"idx_orders_order_status", "CREATE INDEX IF NOT EXISTS idx_orders_order_status ON orders (order_status)"},
	{"idx_orders_product_name", "CREATE INDEX IF NOT EXISTS idx_orders_product_name ON orders (product_name)"},
	{"idx_orders_pincode", "CREATE INDEX IF NOT EXISTS idx_orders_pincode ON orders (pincode)"},
	{"idx_orders_partner", "CREATE INDEX IF NOT EXISTS idx_orders_partner ON orders (fulfillment_partner)"},
	{"idx_orders_date_status", "CREATE INDEX IF NOT EXISTS idx_orders_date_status ON orders (order_date, order_status)"},
	{"idx_orders_product_pincode", "CREATE INDEX IF NOT EXISTS idx_orders_product_pincode ON orders (product_name, pincode)"},
}

const createOrderIDIndex = "CREATE INDEX IF NOT EXISTS idx_orders_order_id ON orders (order_id)"

// EnsureSchema creates the tables and indexes if missing. Both the server and
// the importer CLI run this at startup.
func EnsureSchema(ctx context.Context, db *DB) error {
	statements := []string{createOrdersTable, createImportJobsTable, createOrderIDIndex}
	for _, idx := range analyticsIndexes {
		statements = append(statements, idx.ddl)
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
