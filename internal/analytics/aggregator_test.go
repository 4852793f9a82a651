package analytics

import (
	"testing"

	"github.com/ordersight/backend-go/internal/domain"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		num, den int
		want     float64
	}{
		{1, 2, 50},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 0, 0},
		{0, 10, 0},
	}

	for _, tt := range tests {
		if got := ratio(tt.num, tt.den); got != tt.want {
			t.Errorf("ratio(%d, %d) = %v, want %v", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	rows := []domain.StatusCount{
		{GroupKey: "2024-01-01", Status: "Delivered", Orders: 1, Value: 100},
		{GroupKey: "2024-01-01", Status: "RTO", Orders: 1, Value: 50},
		{GroupKey: "2024-01-02", Status: "Cancelled", Orders: 1, Value: 75},
	}

	got := Summarize(rows)

	if got.ValidOrders != 2 {
		t.Errorf("ValidOrders = %d, want 2 (cancelled excluded)", got.ValidOrders)
	}
	if got.Delivered != 1 || got.RTO != 1 || got.Cancelled != 1 {
		t.Errorf("counts = delivered %d rto %d cancelled %d", got.Delivered, got.RTO, got.Cancelled)
	}
	if got.Revenue != 100 {
		t.Errorf("Revenue = %v, want 100 (delivered orders only)", got.Revenue)
	}
	if got.AvgOrderValue != 50 {
		t.Errorf("AvgOrderValue = %v, want 50", got.AvgOrderValue)
	}
	if got.DeliveryRatio != 50 {
		t.Errorf("DeliveryRatio = %v, want 50", got.DeliveryRatio)
	}
}

func TestSummarizeTwoDenominators(t *testing.T) {
	// In-flight statuses widen the delivery-ratio denominator but not the
	// valid-order set.
	rows := []domain.StatusCount{
		{Status: "Delivered", Orders: 2, Value: 200},
		{Status: "In Transit", Orders: 1},
		{Status: "Booked", Orders: 1},
	}

	got := Summarize(rows)

	if got.ValidOrders != 2 {
		t.Errorf("ValidOrders = %d, want 2", got.ValidOrders)
	}
	if got.DeliveryRatio != 50 {
		t.Errorf("DeliveryRatio = %v, want 50 (2 delivered / 4 in pipeline)", got.DeliveryRatio)
	}
	if got.AvgOrderValue != 100 {
		t.Errorf("AvgOrderValue = %v, want 100", got.AvgOrderValue)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.ValidOrders != 0 || got.Revenue != 0 || got.AvgOrderValue != 0 || got.DeliveryRatio != 0 {
		t.Errorf("empty input should yield all-zero summary, got %+v", got)
	}
}

func TestAggregateGroupsByVolume(t *testing.T) {
	rows := []domain.StatusCount{
		{GroupKey: "110001", Status: "Delivered", Orders: 8, Value: 800},
		{GroupKey: "110001", Status: "RTO", Orders: 2},
		{GroupKey: "560001", Status: "Delivered", Orders: 3, Value: 300},
		{GroupKey: "", Status: "Delivered", Orders: 5, Value: 500},
	}

	got := AggregateGroups(rows, false)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (blank group dropped)", len(got))
	}
	if got[0].Key != "110001" {
		t.Errorf("first group = %s, want busiest pincode 110001", got[0].Key)
	}
	if got[0].DeliveryRatio != 80 {
		t.Errorf("110001 ratio = %v, want 80", got[0].DeliveryRatio)
	}
	if got[1].Key != "560001" || got[1].DeliveryRatio != 100 {
		t.Errorf("560001 row = %+v", got[1])
	}
}

func TestAggregateGroupsByKey(t *testing.T) {
	rows := []domain.StatusCount{
		{GroupKey: "2024-01-02", Status: "Delivered", Orders: 1},
		{GroupKey: "2024-01-01", Status: "Delivered", Orders: 9},
	}

	got := AggregateGroups(rows, true)

	if len(got) != 2 || got[0].Key != "2024-01-01" || got[1].Key != "2024-01-02" {
		t.Fatalf("date groups not in chronological order: %+v", got)
	}
}
