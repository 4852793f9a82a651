package domain

// StatusCount is one (group value, raw status) pair with its order count and
// summed order value, as returned by the storage group-by queries. The Go-side
// aggregator folds these through the status taxonomy.
type StatusCount struct {
	GroupKey string  `db:"group_key"`
	Status   string  `db:"order_status"`
	Orders   int     `db:"orders"`
	Value    float64 `db:"total_value"`
}

// ProductPincodeCount is one (product, pincode, raw status) group, the input
// to the good/bad pincode classification.
type ProductPincodeCount struct {
	Product string `db:"product_name"`
	Pincode string `db:"pincode"`
	Status  string `db:"order_status"`
	Orders  int    `db:"orders"`
}

// Summary carries the top-line KPIs over the filtered record set.
type Summary struct {
	ValidOrders   int     `json:"valid_orders"`
	Delivered     int     `json:"delivered"`
	RTO           int     `json:"rto"`
	RTS           int     `json:"rts"`
	NDR           int     `json:"ndr"`
	Dispatched    int     `json:"dispatched"`
	Lost          int     `json:"lost"`
	Cancelled     int     `json:"cancelled"`
	Revenue       float64 `json:"revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
	DeliveryRatio float64 `json:"delivery_ratio"`
}

// GroupMetrics is one row of a per-dimension report (pincode, product,
// partner or date).
type GroupMetrics struct {
	Key           string  `json:"key"`
	ValidOrders   int     `json:"valid_orders"`
	Delivered     int     `json:"delivered"`
	RTO           int     `json:"rto"`
	NDR           int     `json:"ndr"`
	Cancelled     int     `json:"cancelled"`
	InPipeline    int     `json:"in_pipeline"`
	DeliveryRatio float64 `json:"delivery_ratio"`
	Revenue       float64 `json:"revenue"`
}

// PincodePerformance is one (product, pincode) pair with its delivery outcome
// counts, used by the outlier filter.
type PincodePerformance struct {
	Product      string  `json:"product"`
	Pincode      string  `json:"pincode"`
	ActualOrders int     `json:"actual_orders"`
	Delivered    int     `json:"delivered"`
	Ratio        float64 `json:"ratio"`
}

// PincodeClassification is the outlier filter's output: systematically good
// and bad pincodes per product.
type PincodeClassification struct {
	Good []PincodePerformance `json:"good"`
	Bad  []PincodePerformance `json:"bad"`
}
