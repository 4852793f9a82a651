package importer

import (
	"testing"
	"time"
)

func TestCoerceDateSerial(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"1", time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"45292", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"45292.5", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		// Fractions that are not whole hours must keep their minutes.
		{"45292.52083", time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)},
		{"45292.010416667", time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC)},
		{"45292.25", time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := CoerceDate(tt.raw)
		if got == nil {
			t.Errorf("CoerceDate(%q) = nil, want %v", tt.raw, tt.want)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("CoerceDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCoerceDateNegativeSerial(t *testing.T) {
	if got := CoerceDate("-3"); got != nil {
		t.Errorf("CoerceDate(-3) = %v, want nil", got)
	}
}

func TestCoerceDateText(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		// Day-first wins when both readings are plausible.
		{"01/02/2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"31/12/2023", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		// Month-first is still accepted when day-first cannot parse.
		{"12/31/2023", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"15-06-2024", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"02 Jan 2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := CoerceDate(tt.raw)
		if got == nil {
			t.Errorf("CoerceDate(%q) = nil, want %v", tt.raw, tt.want)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("CoerceDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCoerceDateUnparsable(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a date", "99/99/9999"} {
		if got := CoerceDate(raw); got != nil {
			t.Errorf("CoerceDate(%q) = %v, want nil", raw, got)
		}
	}
}

func TestCoerceDecimal(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1234.5", 1234.5},
		{"₹1,234.50", 1234.5},
		{"Rs. 999", 999},
		{"INR 2,000", 2000},
		{"$12.5", 12.5},
		{"0", 0},
		{"-45.25", -45.25},
	}

	for _, tt := range tests {
		got := CoerceDecimal(tt.raw)
		if got == nil {
			t.Errorf("CoerceDecimal(%q) = nil, want %v", tt.raw, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("CoerceDecimal(%q) = %v, want %v", tt.raw, *got, tt.want)
		}
	}
}

func TestCoerceDecimalUnparsable(t *testing.T) {
	for _, raw := range []string{"", "  ", "free", "₹"} {
		if got := CoerceDecimal(raw); got != nil {
			t.Errorf("CoerceDecimal(%q) = %v, want nil", raw, *got)
		}
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"2", 2},
		{"2.0", 2},
		{"1,000", 1000},
		{"0", 0},
	}

	for _, tt := range tests {
		got := CoerceInt(tt.raw)
		if got == nil {
			t.Errorf("CoerceInt(%q) = nil, want %d", tt.raw, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("CoerceInt(%q) = %d, want %d", tt.raw, *got, tt.want)
		}
	}

	for _, raw := range []string{"", "two"} {
		if got := CoerceInt(raw); got != nil {
			t.Errorf("CoerceInt(%q) = %d, want nil", raw, *got)
		}
	}
}

func TestCoerceString(t *testing.T) {
	if got := CoerceString("  hello "); got == nil || *got != "hello" {
		t.Errorf("CoerceString did not trim: %v", got)
	}
	if got := CoerceString("   "); got != nil {
		t.Errorf("CoerceString(blank) = %q, want nil", *got)
	}
}
