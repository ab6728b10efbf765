package domain

import (
	"fmt"
	"sort"
)

// Stats summarizes per-point illuminance in lux.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// ComputeStats folds an illuminance vector into summary statistics.
// An empty vector yields zeroes.
func ComputeStats(lux []float64) Stats {
	if len(lux) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(lux))
	copy(sorted, lux)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	var median float64
	n := len(sorted)
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Stats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}
}

// DFStats expresses a result as daylight factor percentages:
// DF = lux / skyLux * 100.
type DFStats struct {
	SkyLux       float64
	TargetDF     float64 // The DF level points are tested against, percent.
	ShareAtLeast float64 // Fraction of points at or above TargetDF, in [0,1].
	Min          float64
	Max          float64
	Mean         float64
}

// ComputeDFStats converts lux to daylight factors against the sky level and
// measures the share of points at or above the target.
func ComputeDFStats(lux []float64, skyLux, targetDF float64) DFStats {
	df := DFStats{SkyLux: skyLux, TargetDF: targetDF}
	if len(lux) == 0 || skyLux <= 0 {
		return df
	}

	pass := 0
	sum := 0.0
	df.Min = lux[0] / skyLux * 100
	for _, v := range lux {
		f := v / skyLux * 100
		sum += f
		if f < df.Min {
			df.Min = f
		}
		if f > df.Max {
			df.Max = f
		}
		if f >= targetDF {
			pass++
		}
	}
	df.Mean = sum / float64(len(lux))
	df.ShareAtLeast = float64(pass) / float64(len(lux))
	return df
}

// ComplianceRule is the pass rule: at least MinAreaFraction of the grid
// must reach TargetDF percent daylight factor.
type ComplianceRule struct {
	TargetDF        float64
	MinAreaFraction float64
}

// DefaultComplianceRule is the 2.1 percent over half the floor area rule.
func DefaultComplianceRule() ComplianceRule {
	return ComplianceRule{TargetDF: 2.1, MinAreaFraction: 0.5}
}

// Verdict is the outcome of a compliance evaluation.
type Verdict struct {
	Passed  bool
	Share   float64
	Rule    ComplianceRule
	Message string
}

// Evaluate applies the rule to computed DF statistics. Exactly reaching
// the area fraction passes.
func (r ComplianceRule) Evaluate(df DFStats) Verdict {
	v := Verdict{
		Share:  df.ShareAtLeast,
		Rule:   r,
		Passed: df.ShareAtLeast >= r.MinAreaFraction,
	}
	state := "FAILS"
	if v.Passed {
		state = "PASSES"
	}
	v.Message = fmt.Sprintf("%.1f%% of the area reaches a daylight factor of %.1f%% (required %.0f%%): %s",
		df.ShareAtLeast*100, r.TargetDF, r.MinAreaFraction*100, state)
	return v
}
