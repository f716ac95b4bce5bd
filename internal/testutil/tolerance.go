package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireWithinPercent fails t unless got lies within pct percent of want.
func RequireWithinPercent(t *testing.T, got, want, pct float64) {
	t.Helper()
	if err := withinPercent(got, want, pct); err != nil {
		t.Fatal(err)
	}
}

func withinPercent(got, want, pct float64) error {
	limit := math.Abs(want) * pct / 100
	if diff := math.Abs(got - want); diff > limit || math.IsNaN(got) {
		return fmt.Errorf("got %v, want %v ± %v%% (diff %v)", got, want, pct, diff)
	}
	return nil
}
