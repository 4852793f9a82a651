package analytics

import (
	"sort"
	"strings"

	"github.com/ordersight/backend-go/internal/domain"
)

// Classification thresholds: a pincode is good when it delivers more than 60%
// of its actual orders, bad when under 20%.
const (
	goodRatioThreshold = 60.0
	badRatioThreshold  = 20.0
)

type pairKey struct {
	product string
	pincode string
}

type pairCounts struct {
	total     int
	cancelled int
	delivered int
}

// ClassifyPincodes buckets (product, pincode) pairs into systematically good
// and bad performers. Only pairs whose actual order volume (total minus
// cancelled) exceeds their product's median volume are classified, so a
// pincode with one lucky or unlucky order never shows up. When a product's
// median is 0, any pair with actual orders qualifies.
func ClassifyPincodes(rows []domain.ProductPincodeCount) domain.PincodeClassification {
	pairs := make(map[pairKey]*pairCounts)

	for _, row := range rows {
		if isUnknownGroup(row.Product) || isUnknownGroup(row.Pincode) {
			// Excluded before median computation, not merely before
			// output, so unknowns cannot skew the threshold.
			continue
		}

		key := pairKey{product: row.Product, pincode: row.Pincode}
		counts, ok := pairs[key]
		if !ok {
			counts = &pairCounts{}
			pairs[key] = counts
		}

		counts.total += row.Orders
		switch domain.ClassifyStatus(row.Status) {
		case domain.StatusCancelled:
			counts.cancelled += row.Orders
		case domain.StatusDelivered:
			counts.delivered += row.Orders
		}
	}

	// Per-product medians over pincodes that saw real volume.
	actualsByProduct := make(map[string][]int)
	for key, counts := range pairs {
		if actual := counts.total - counts.cancelled; actual > 0 {
			actualsByProduct[key.product] = append(actualsByProduct[key.product], actual)
		}
	}
	medians := make(map[string]float64, len(actualsByProduct))
	for product, actuals := range actualsByProduct {
		medians[product] = median(actuals)
	}

	classification := domain.PincodeClassification{
		Good: []domain.PincodePerformance{},
		Bad:  []domain.PincodePerformance{},
	}

	for key, counts := range pairs {
		actual := counts.total - counts.cancelled
		if actual <= 0 {
			continue
		}

		med := medians[key.product]
		if med > 0 && float64(actual) <= med {
			continue
		}

		perf := domain.PincodePerformance{
			Product:      key.product,
			Pincode:      key.pincode,
			ActualOrders: actual,
			Delivered:    counts.delivered,
			Ratio:        ratio(counts.delivered, actual),
		}

		switch {
		case perf.Ratio > goodRatioThreshold:
			classification.Good = append(classification.Good, perf)
		case perf.Ratio < badRatioThreshold:
			classification.Bad = append(classification.Bad, perf)
		}
	}

	sort.Slice(classification.Good, func(i, j int) bool {
		if classification.Good[i].Ratio != classification.Good[j].Ratio {
			return classification.Good[i].Ratio > classification.Good[j].Ratio
		}
		return classification.Good[i].Pincode < classification.Good[j].Pincode
	})
	sort.Slice(classification.Bad, func(i, j int) bool {
		if classification.Bad[i].Ratio != classification.Bad[j].Ratio {
			return classification.Bad[i].Ratio < classification.Bad[j].Ratio
		}
		return classification.Bad[i].Pincode < classification.Bad[j].Pincode
	})

	return classification
}

// median computes the standard median: the average of the two middle values
// for even-sized samples.
func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

func isUnknownGroup(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "" || s == "unknown" || s == "n/a" || s == "na" || s == "-"
}
