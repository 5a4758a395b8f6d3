package report

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarizeStats(t *testing.T) {
	summary := Summarize(map[string][]float64{
		"outer-join-and-group/base": {300, 400},
		"union-of-inner-joins/base": {1, 3},
	})
	outer := summary.Strategies["outer-join-and-group/base"]
	if !almostEqual(outer.Mean, 350) || !almostEqual(outer.Min, 300) || !almostEqual(outer.Max, 400) {
		t.Fatalf("unexpected outer stats: %+v", outer)
	}
	if outer.Samples != 2 {
		t.Fatalf("unexpected sample count: %d", outer.Samples)
	}
	union := summary.Strategies["union-of-inner-joins/base"]
	if !almostEqual(union.Mean, 2) {
		t.Fatalf("unexpected union mean: %f", union.Mean)
	}
}

func TestSummarizeRatiosAreMeanQuotients(t *testing.T) {
	summary := Summarize(map[string][]float64{
		"outer-join-and-group/base": {300, 400},
		"union-of-inner-joins/base": {1, 3},
	})
	// The contract is the quotient of arithmetic means, not the mean of
	// per-iteration quotients.
	ratio, ok := summary.Ratios["outer-join-and-group/base/union-of-inner-joins/base"]
	if !ok {
		t.Fatalf("missing ratio, got %v", summary.Ratios)
	}
	if !almostEqual(ratio, 175) {
		t.Fatalf("ratio = %f, want 175", ratio)
	}
	inverse := summary.Ratios["union-of-inner-joins/base/outer-join-and-group/base"]
	if !almostEqual(inverse, 2.0/350.0) {
		t.Fatalf("inverse ratio = %f", inverse)
	}
}

func TestSummarizeCoversEveryOrderedPair(t *testing.T) {
	summary := Summarize(map[string][]float64{
		"a": {1},
		"b": {2},
		"c": {4},
	})
	if len(summary.Ratios) != 6 {
		t.Fatalf("expected 6 ordered pairs, got %d: %v", len(summary.Ratios), summary.Ratios)
	}
	if !almostEqual(summary.Ratios["c/a"], 4) || !almostEqual(summary.Ratios["a/c"], 0.25) {
		t.Fatalf("unexpected ratios: %v", summary.Ratios)
	}
}

func TestSummarizeSkipsZeroMeanDenominators(t *testing.T) {
	summary := Summarize(map[string][]float64{
		"a": {1},
		"b": {},
	})
	if _, ok := summary.Ratios["a/b"]; ok {
		t.Fatalf("ratio against an empty series must be skipped")
	}
	if stats := summary.Strategies["b"]; stats.Samples != 0 {
		t.Fatalf("unexpected stats for empty series: %+v", stats)
	}
}
