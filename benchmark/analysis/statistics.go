// Package analysis summarizes and compares the attempt counts of magic
// search runs.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MannWhitneyResult contains the result of a Mann-Whitney U test.
type MannWhitneyResult struct {
	U           float64 // U statistic.
	Z           float64 // Z score (normal approximation).
	PValue      float64 // Two-tailed p-value.
	Significant bool    // True if p < 0.05.
}

// MannWhitneyU performs the Mann-Whitney U test on two samples. Attempt
// counts are heavy-tailed, so a rank test is used rather than a t-test.
func MannWhitneyU(sample1, sample2 []float64) *MannWhitneyResult {
	n1 := float64(len(sample1))
	n2 := float64(len(sample2))
	if n1 == 0 || n2 == 0 {
		return &MannWhitneyResult{}
	}

	type ranked struct {
		value float64
		first bool
	}
	combined := make([]ranked, 0, len(sample1)+len(sample2))
	for _, v := range sample1 {
		combined = append(combined, ranked{v, true})
	}
	for _, v := range sample2 {
		combined = append(combined, ranked{v, false})
	}
	sort.Slice(combined, func(i, j int) bool {
		return combined[i].value < combined[j].value
	})

	// Ties share their average rank.
	var r1 float64
	for i := 0; i < len(combined); {
		j := i
		for j < len(combined) && combined[j].value == combined[i].value {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if combined[k].first {
				r1 += avg
			}
		}
		i = j
	}

	u1 := r1 - n1*(n1+1)/2
	u := math.Min(u1, n1*n2-u1)

	mu := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 * (n1 + n2 + 1) / 12)
	var z float64
	if sigma > 0 {
		z = (u - mu) / sigma
	}
	p := 2 * normalCDF(-math.Abs(z))

	return &MannWhitneyResult{
		U:           u,
		Z:           z,
		PValue:      p,
		Significant: p < 0.05,
	}
}

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// EffectSize contains effect size metrics.
type EffectSize struct {
	CohensD        float64 // (mean1 - mean2) / pooled std.
	Interpretation string  // "negligible", "small", "medium", "large".
}

// ComputeEffectSize computes Cohen's d effect size.
func ComputeEffectSize(sample1, sample2 []float64) *EffectSize {
	if len(sample1) < 2 || len(sample2) < 2 {
		return &EffectSize{Interpretation: "undefined"}
	}

	mean1, std1 := stat.MeanStdDev(sample1, nil)
	mean2, std2 := stat.MeanStdDev(sample2, nil)

	n1 := float64(len(sample1))
	n2 := float64(len(sample2))
	pooled := math.Sqrt(((n1-1)*std1*std1 + (n2-1)*std2*std2) / (n1 + n2 - 2))

	var d float64
	if pooled > 0 {
		d = (mean1 - mean2) / pooled
	}
	return &EffectSize{
		CohensD:        d,
		Interpretation: interpretCohensD(math.Abs(d)),
	}
}

func interpretCohensD(d float64) string {
	switch {
	case d < 0.2:
		return "negligible"
	case d < 0.5:
		return "small"
	case d < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// DescriptiveStats contains basic descriptive statistics.
type DescriptiveStats struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	P25    float64
	P75    float64
	P90    float64
}

// Describe computes descriptive statistics for a sample.
func Describe(sample []float64) *DescriptiveStats {
	if len(sample) == 0 {
		return &DescriptiveStats{}
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	q := func(p float64) float64 {
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	ds := &DescriptiveStats{
		N:      len(sample),
		Mean:   stat.Mean(sample, nil),
		Median: q(0.5),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		P25:    q(0.25),
		P75:    q(0.75),
		P90:    q(0.9),
	}
	if len(sample) > 1 {
		ds.StdDev = stat.StdDev(sample, nil)
	}
	return ds
}
