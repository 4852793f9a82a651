package analytics

import (
	"math"
	"sort"

	"github.com/ordersight/backend-go/internal/domain"
)

// round2 keeps ratios at two decimals, matching what the dashboard renders.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ratio returns numerator/denominator as a percentage, 0 when the denominator
// is 0. Never NaN, never Inf.
func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return round2(float64(numerator) / float64(denominator) * 100)
}

// Summarize folds grouped status counts into the top-line KPIs. Revenue sums
// order value over Delivered orders only; the valid-order set is the
// denominator for average order value, while the delivery ratio uses the
// broader in-pipeline denominator.
func Summarize(rows []domain.StatusCount) domain.Summary {
	var (
		summary    domain.Summary
		inPipeline int
	)

	for _, row := range rows {
		bucket := domain.ClassifyStatus(row.Status)

		if bucket.CountsAsValidOrder() {
			summary.ValidOrders += row.Orders
		}
		if bucket.CountsTowardDeliveryRatio() {
			inPipeline += row.Orders
		}

		switch bucket {
		case domain.StatusDelivered:
			summary.Delivered += row.Orders
			summary.Revenue += row.Value
		case domain.StatusRTO:
			summary.RTO += row.Orders
		case domain.StatusRTS:
			summary.RTS += row.Orders
		case domain.StatusNDR:
			summary.NDR += row.Orders
		case domain.StatusDispatched:
			summary.Dispatched += row.Orders
		case domain.StatusLost:
			summary.Lost += row.Orders
		case domain.StatusCancelled:
			summary.Cancelled += row.Orders
		}
	}

	summary.Revenue = round2(summary.Revenue)
	if summary.ValidOrders > 0 {
		summary.AvgOrderValue = round2(summary.Revenue / float64(summary.ValidOrders))
	}
	summary.DeliveryRatio = ratio(summary.Delivered, inPipeline)

	return summary
}

// AggregateGroups folds grouped status counts into one metrics row per group
// value. Blank group values (null pincode, unnamed product) do not appear in
// reports. When byKey is true rows sort ascending by key (date trends);
// otherwise by valid-order volume, busiest first.
func AggregateGroups(rows []domain.StatusCount, byKey bool) []domain.GroupMetrics {
	groups := make(map[string]*groupAccumulator)

	for _, row := range rows {
		if row.GroupKey == "" {
			continue
		}

		acc, ok := groups[row.GroupKey]
		if !ok {
			acc = &groupAccumulator{}
			groups[row.GroupKey] = acc
		}
		acc.add(row)
	}

	metrics := make([]domain.GroupMetrics, 0, len(groups))
	for key, acc := range groups {
		metrics = append(metrics, acc.finish(key))
	}

	if byKey {
		sort.Slice(metrics, func(i, j int) bool { return metrics[i].Key < metrics[j].Key })
	} else {
		sort.Slice(metrics, func(i, j int) bool {
			if metrics[i].ValidOrders != metrics[j].ValidOrders {
				return metrics[i].ValidOrders > metrics[j].ValidOrders
			}
			return metrics[i].Key < metrics[j].Key
		})
	}

	return metrics
}

type groupAccumulator struct {
	valid      int
	delivered  int
	rto        int
	ndr        int
	cancelled  int
	inPipeline int
	revenue    float64
}

func (a *groupAccumulator) add(row domain.StatusCount) {
	bucket := domain.ClassifyStatus(row.Status)

	if bucket.CountsAsValidOrder() {
		a.valid += row.Orders
	}
	if bucket.CountsTowardDeliveryRatio() {
		a.inPipeline += row.Orders
	}

	switch bucket {
	case domain.StatusDelivered:
		a.delivered += row.Orders
		a.revenue += row.Value
	case domain.StatusRTO:
		a.rto += row.Orders
	case domain.StatusNDR:
		a.ndr += row.Orders
	case domain.StatusCancelled:
		a.cancelled += row.Orders
	}
}

func (a *groupAccumulator) finish(key string) domain.GroupMetrics {
	return domain.GroupMetrics{
		Key:           key,
		ValidOrders:   a.valid,
		Delivered:     a.delivered,
		RTO:           a.rto,
		NDR:           a.ndr,
		Cancelled:     a.cancelled,
		InPipeline:    a.inPipeline,
		DeliveryRatio: ratio(a.delivered, a.inPipeline),
		Revenue:       round2(a.revenue),
	}
}
