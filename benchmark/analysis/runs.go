package analysis

import (
	"fmt"
	"math"

	"github.com/discochess/magics/internal/artifact"
	"github.com/discochess/magics/internal/geometry"
)

// Attempts returns the attempt count of every square of p in s.
func Attempts(s *artifact.Set, p geometry.Pattern) []float64 {
	entries := s.Entries(p)
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = float64(e.Attempts)
	}
	return out
}

// LogScale maps attempt counts to log10(1+n).
func LogScale(sample []float64) []float64 {
	out := make([]float64, len(sample))
	for i, v := range sample {
		out[i] = math.Log10(1 + v)
	}
	return out
}

// PatternSummary describes one pattern of one run.
type PatternSummary struct {
	Pattern      geometry.Pattern
	Attempts     *DescriptiveStats
	Relaxed      int
	TableEntries int
}

// Summarize describes both patterns of s.
func Summarize(s *artifact.Set) []PatternSummary {
	var out []PatternSummary
	for _, p := range geometry.Patterns {
		ps := PatternSummary{Pattern: p, Attempts: Describe(Attempts(s, p))}
		for _, e := range s.Entries(p) {
			ps.TableEntries += len(e.Attacks)
			if e.Relaxed {
				ps.Relaxed++
			}
		}
		out = append(out, ps)
	}
	return out
}

// RunComparison compares one pattern's attempt counts across two runs.
type RunComparison struct {
	Pattern     geometry.Pattern
	Stats1      *DescriptiveStats
	Stats2      *DescriptiveStats
	MannWhitney *MannWhitneyResult
	// EffectSize is computed on the log scale.
	EffectSize *EffectSize
}

// CompareRuns compares a and b pattern by pattern.
func CompareRuns(a, b *artifact.Set) []*RunComparison {
	var out []*RunComparison
	for _, p := range geometry.Patterns {
		s1, s2 := Attempts(a, p), Attempts(b, p)
		out = append(out, &RunComparison{
			Pattern:     p,
			Stats1:      Describe(s1),
			Stats2:      Describe(s2),
			MannWhitney: MannWhitneyU(s1, s2),
			EffectSize:  ComputeEffectSize(LogScale(s1), LogScale(s2)),
		})
	}
	return out
}

// Summary returns a human-readable summary of the comparison.
func (c *RunComparison) Summary() string {
	sig := "not statistically significant"
	if c.MannWhitney.Significant {
		sig = fmt.Sprintf("statistically significant (p=%.4f)", c.MannWhitney.PValue)
	}
	return fmt.Sprintf(
		"%s:\n"+
			"  run 1: median=%.0f, p90=%.0f, max=%.0f\n"+
			"  run 2: median=%.0f, p90=%.0f, max=%.0f\n"+
			"  Effect size (log attempts): %.2f (%s)\n"+
			"  Result: %s",
		c.Pattern,
		c.Stats1.Median, c.Stats1.P90, c.Stats1.Max,
		c.Stats2.Median, c.Stats2.P90, c.Stats2.Max,
		c.EffectSize.CohensD, c.EffectSize.Interpretation,
		sig,
	)
}
