package analytics

import (
	"testing"

	"github.com/ordersight/backend-go/internal/domain"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		values []int
		want   float64
	}{
		{nil, 0},
		{[]int{5}, 5},
		{[]int{1, 1, 1, 50, 50}, 1},
		{[]int{1, 3}, 2},
		{[]int{4, 1, 3, 2}, 2.5},
	}

	for _, tt := range tests {
		if got := median(tt.values); got != tt.want {
			t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}

func pairRows(product, pincode string, delivered, rto, cancelled int) []domain.ProductPincodeCount {
	var rows []domain.ProductPincodeCount
	if delivered > 0 {
		rows = append(rows, domain.ProductPincodeCount{Product: product, Pincode: pincode, Status: "Delivered", Orders: delivered})
	}
	if rto > 0 {
		rows = append(rows, domain.ProductPincodeCount{Product: product, Pincode: pincode, Status: "RTO", Orders: rto})
	}
	if cancelled > 0 {
		rows = append(rows, domain.ProductPincodeCount{Product: product, Pincode: pincode, Status: "Cancelled", Orders: cancelled})
	}
	return rows
}

func TestClassifyPincodesMedianEligibility(t *testing.T) {
	// Three pincodes with one order each drag the median down to 1; only the
	// two high-volume pincodes clear it and get classified.
	var rows []domain.ProductPincodeCount
	rows = append(rows, pairRows("Widget", "110001", 1, 0, 0)...)
	rows = append(rows, pairRows("Widget", "110002", 1, 0, 0)...)
	rows = append(rows, pairRows("Widget", "110003", 1, 0, 0)...)
	rows = append(rows, pairRows("Widget", "400001", 45, 5, 0)...)
	rows = append(rows, pairRows("Widget", "700001", 5, 45, 0)...)

	got := ClassifyPincodes(rows)

	if len(got.Good) != 1 || got.Good[0].Pincode != "400001" {
		t.Fatalf("Good = %+v, want exactly 400001", got.Good)
	}
	if got.Good[0].Ratio != 90 {
		t.Errorf("400001 ratio = %v, want 90", got.Good[0].Ratio)
	}
	if len(got.Bad) != 1 || got.Bad[0].Pincode != "700001" {
		t.Fatalf("Bad = %+v, want exactly 700001", got.Bad)
	}
	if got.Bad[0].Ratio != 10 {
		t.Errorf("700001 ratio = %v, want 10", got.Bad[0].Ratio)
	}
}

func TestClassifyPincodesCancelledExcludedFromActual(t *testing.T) {
	// 10 orders but 8 cancelled: actual volume is 2, delivered 2 of 2.
	var rows []domain.ProductPincodeCount
	rows = append(rows, pairRows("Widget", "110001", 2, 0, 8)...)
	rows = append(rows, pairRows("Widget", "110002", 1, 0, 0)...)

	got := ClassifyPincodes(rows)

	if len(got.Good) != 1 || got.Good[0].Pincode != "110001" {
		t.Fatalf("Good = %+v, want 110001", got.Good)
	}
	if got.Good[0].ActualOrders != 2 {
		t.Errorf("ActualOrders = %d, want 2 (cancellations excluded)", got.Good[0].ActualOrders)
	}
}

func TestClassifyPincodesUnknownGroupsExcluded(t *testing.T) {
	// Unknown pincodes are dropped before the median is computed; a large
	// unknown bucket must not raise the bar for real pincodes.
	var rows []domain.ProductPincodeCount
	rows = append(rows, pairRows("Widget", "", 500, 0, 0)...)
	rows = append(rows, pairRows("Widget", "unknown", 400, 0, 0)...)
	rows = append(rows, pairRows("Widget", "110001", 1, 0, 0)...)
	rows = append(rows, pairRows("Widget", "400001", 10, 0, 0)...)

	got := ClassifyPincodes(rows)

	if len(got.Good) != 1 || got.Good[0].Pincode != "400001" {
		t.Fatalf("Good = %+v, want only 400001", got.Good)
	}
	for _, perf := range append(got.Good, got.Bad...) {
		if perf.Pincode == "" || perf.Pincode == "unknown" {
			t.Errorf("unknown pincode leaked into output: %+v", perf)
		}
	}
}

func TestClassifyPincodesSingleVolumePincode(t *testing.T) {
	// One pincode carrying all the volume equals its own median, so nothing
	// qualifies as an outlier.
	got := ClassifyPincodes(pairRows("Widget", "110001", 9, 1, 0))

	if len(got.Good) != 0 || len(got.Bad) != 0 {
		t.Fatalf("single pincode should not be classified, got good=%v bad=%v", got.Good, got.Bad)
	}
}

func TestClassifyPincodesMiddleRatioUnclassified(t *testing.T) {
	// Ratios between the thresholds land in neither bucket.
	var rows []domain.ProductPincodeCount
	rows = append(rows, pairRows("Widget", "110001", 1, 0, 0)...)
	rows = append(rows, pairRows("Widget", "400001", 5, 5, 0)...) // 50%

	got := ClassifyPincodes(rows)

	if len(got.Good) != 0 || len(got.Bad) != 0 {
		t.Fatalf("50%% pincode must stay unclassified, got good=%v bad=%v", got.Good, got.Bad)
	}
}

func TestClassifyPincodesSortOrder(t *testing.T) {
	var rows []domain.ProductPincodeCount
	// Five single-order pincodes pin the median at 1 so the four high-volume
	// pincodes are all eligible.
	for _, pin := range []string{"110001", "110002", "110003", "110004", "110005"} {
		rows = append(rows, pairRows("Widget", pin, 1, 0, 0)...)
	}
	rows = append(rows, pairRows("Widget", "400001", 18, 2, 0)...)  // 90%
	rows = append(rows, pairRows("Widget", "400002", 30, 0, 0)...)  // 100%
	rows = append(rows, pairRows("Widget", "700001", 2, 18, 0)...)  // 10%
	rows = append(rows, pairRows("Widget", "700002", 0, 30, 0)...)  // 0%

	got := ClassifyPincodes(rows)

	if len(got.Good) != 2 || got.Good[0].Pincode != "400002" || got.Good[1].Pincode != "400001" {
		t.Fatalf("Good not sorted by ratio desc: %+v", got.Good)
	}
	if len(got.Bad) != 2 || got.Bad[0].Pincode != "700002" || got.Bad[1].Pincode != "700001" {
		t.Fatalf("Bad not sorted by ratio asc: %+v", got.Bad)
	}
}
