package domain

import "time"

// OrderRecord is the canonical unit of ingested data: one spreadsheet row that
// parsed successfully. Every field except the surrogate id, quantity and the
// store-maintained timestamps may be null; order_date is enforced NOT NULL by
// the store, not by the assembler.
type OrderRecord struct {
	ID                 int64      `json:"id" db:"id"`
	OrderID            *string    `json:"order_id" db:"order_id"`
	ChannelOrderID     *string    `json:"channel_order_id" db:"channel_order_id"`
	OrderDate          *time.Time `json:"order_date" db:"order_date"`
	ChannelOrderDate   *time.Time `json:"channel_order_date" db:"channel_order_date"`
	AddedOn            *time.Time `json:"added_on" db:"added_on"`
	DeliveredDate      *time.Time `json:"delivered_date" db:"delivered_date"`
	RTSDate            *time.Time `json:"rts_date" db:"rts_date"`
	OrderStatus        *string    `json:"order_status" db:"order_status"`
	PaymentMethod      *string    `json:"payment_method" db:"payment_method"`
	FulfillmentPartner *string    `json:"fulfillment_partner" db:"fulfillment_partner"`
	Channel            *string    `json:"channel" db:"channel"`
	ProductName        *string    `json:"product_name" db:"product_name"`
	SKU                *string    `json:"sku" db:"sku"`
	Quantity           int        `json:"quantity" db:"quantity"`
	OrderValue         *float64   `json:"order_value" db:"order_value"`
	ProductValue       *float64   `json:"product_value" db:"product_value"`
	ExtraCharges       *float64   `json:"extra_charges" db:"extra_charges"`
	ShippingCharges    *float64   `json:"shipping_charges" db:"shipping_charges"`
	Discount           *float64   `json:"discount" db:"discount"`
	TotalAmount        *float64   `json:"total_amount" db:"total_amount"`
	CODAmount          *float64   `json:"cod_amount" db:"cod_amount"`
	Weight             *float64   `json:"weight" db:"weight"`
	AWBNumber          *string    `json:"awb_number" db:"awb_number"`
	Pincode            *string    `json:"pincode" db:"pincode"`
	City               *string    `json:"city" db:"city"`
	State              *string    `json:"state" db:"state"`
	Country            *string    `json:"country" db:"country"`
	Zone               *string    `json:"zone" db:"zone"`
	Address            *string    `json:"address" db:"address"`
	ConsigneeName      *string    `json:"consignee_name" db:"consignee_name"`
	Phone              *string    `json:"phone" db:"phone"`
	AlternatePhone     *string    `json:"alternate_phone" db:"alternate_phone"`
	Email              *string    `json:"email" db:"email"`
	Tags               *string    `json:"tags" db:"tags"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// Import job statuses.
const (
	ImportStatusSuccess = "success"
	ImportStatusPartial = "partial"
	ImportStatusFailed  = "failed"
)

// ImportJob records one invocation of the ingestion pipeline. It is created
// when the pipeline starts, updated once on completion and immutable after.
type ImportJob struct {
	ID         int64      `json:"id" db:"id"`
	FileName   string     `json:"file_name" db:"file_name"`
	TotalRows  int        `json:"total_rows" db:"total_rows"`
	Inserted   int        `json:"inserted" db:"inserted"`
	Skipped    int        `json:"skipped" db:"skipped"`
	Errors     int        `json:"errors" db:"errors"`
	Status     string     `json:"status" db:"status"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at" db:"finished_at"`
}

// ImportResult is what the ingestion pipeline returns to its caller.
type ImportResult struct {
	TotalRows  int    `json:"total_rows"`
	Inserted   int    `json:"inserted"`
	Skipped    int    `json:"skipped"`
	Errors     int    `json:"errors"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
}

// ReportFilter narrows aggregation queries. From is inclusive; To is the
// exclusive end (callers pass the day after the last day they want).
type ReportFilter struct {
	From     *time.Time `json:"from"`
	To       *time.Time `json:"to"`
	Products []string   `json:"products"`
	Pincode  string     `json:"pincode"`
	Partner  string     `json:"partner"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
