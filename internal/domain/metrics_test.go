package domain

import (
	"math"
	"strings"
	"testing"
)

func TestComputeStats(t *testing.T) {
	s := ComputeStats([]float64{400, 100, 300, 200})
	if s.Min != 100 || s.Max != 400 {
		t.Fatalf("min/max = %g/%g, want 100/400", s.Min, s.Max)
	}
	if s.Mean != 250 {
		t.Fatalf("mean = %g, want 250", s.Mean)
	}
	if s.Median != 250 {
		t.Fatalf("even median = %g, want 250", s.Median)
	}

	odd := ComputeStats([]float64{10, 30, 20})
	if odd.Median != 20 {
		t.Fatalf("odd median = %g, want 20", odd.Median)
	}

	if z := ComputeStats(nil); z != (Stats{}) {
		t.Fatalf("empty stats = %+v, want zeroes", z)
	}
}

func TestComputeDFStats(t *testing.T) {
	// 10000 lux sky, 2.1% target => 210 lux threshold.
	lux := []float64{500, 210, 209.9, 100}
	df := ComputeDFStats(lux, 10000, 2.1)

	if math.Abs(df.ShareAtLeast-0.5) > 1e-9 {
		t.Fatalf("share = %g, want 0.5", df.ShareAtLeast)
	}
	if math.Abs(df.Min-1.0) > 1e-9 {
		t.Fatalf("min DF = %g, want 1.0", df.Min)
	}
	if math.Abs(df.Max-5.0) > 1e-9 {
		t.Fatalf("max DF = %g, want 5.0", df.Max)
	}
}

func TestComplianceEvaluate(t *testing.T) {
	rule := DefaultComplianceRule()

	pass := rule.Evaluate(DFStats{ShareAtLeast: 0.5, TargetDF: 2.1})
	if !pass.Passed {
		t.Fatalf("exactly half the area must pass")
	}
	if !strings.Contains(pass.Message, "PASSES") {
		t.Fatalf("pass message = %q", pass.Message)
	}

	fail := rule.Evaluate(DFStats{ShareAtLeast: 0.49, TargetDF: 2.1})
	if fail.Passed {
		t.Fatalf("0.49 share must fail")
	}
	if !strings.Contains(fail.Message, "FAILS") {
		t.Fatalf("fail message = %q", fail.Message)
	}
}
