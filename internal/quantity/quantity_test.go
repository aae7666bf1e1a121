package quantity

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestRoundingModeIsHalfToEven pins the rounding mode: ties go to the
// even neighbor, both for rates and absolutes.
func TestRoundingModeIsHalfToEven(t *testing.T) {
	tests := []struct {
		in     string
		places string // "rate" or "absolute"
		want   string
	}{
		{"0.125", "absolute", "0.12"},
		{"0.135", "absolute", "0.14"},
		{"2.005", "absolute", "2"},
		{"2.015", "absolute", "2.02"},
		{"-0.125", "absolute", "-0.12"},
		{"0.00125", "rate", "0.0012"},
		{"0.00135", "rate", "0.0014"},
		{"1.00005", "rate", "1"},
		{"1.00015", "rate", "1.0002"},
	}

	for _, tt := range tests {
		t.Run(tt.in+"_"+tt.places, func(t *testing.T) {
			in := decimal.RequireFromString(tt.in)
			var got decimal.Decimal
			if tt.places == "rate" {
				got = Rate(in)
			} else {
				got = Absolute(in)
			}
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("quantize(%s, %s) = %s, want %s", tt.in, tt.places, got, want)
			}
		})
	}
}

func TestQuantizeIsStable(t *testing.T) {
	// Quantizing an already-quantized value must be a no-op, otherwise
	// recalculation would not be idempotent.
	values := []string{"0.12", "250.0000", "1500.00", "0.01", "3"}
	for _, v := range values {
		d := decimal.RequireFromString(v)
		if got := Absolute(Absolute(d)); !got.Equal(Absolute(d)) {
			t.Errorf("Absolute not stable for %s: %s", v, got)
		}
		if got := Rate(Rate(d)); !got.Equal(Rate(d)) {
			t.Errorf("Rate not stable for %s: %s", v, got)
		}
	}
}

func TestPositive(t *testing.T) {
	if Positive(decimal.Zero) {
		t.Error("zero must not be positive")
	}
	if Positive(decimal.RequireFromString("-0.01")) {
		t.Error("negative must not be positive")
	}
	if !Positive(decimal.RequireFromString("0.01")) {
		t.Error("0.01 must be positive")
	}
}
