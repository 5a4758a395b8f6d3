// Package report reduces latency series to comparative statistics and
// persists run artifacts.
package report

import "sort"

// Stats aggregates one strategy's latency series (milliseconds).
type Stats struct {
	Mean    float64 `json:"mean_ms"`
	Min     float64 `json:"min_ms"`
	Max     float64 `json:"max_ms"`
	Samples int     `json:"samples"`
}

// Summary is the decision-relevant reduction of a benchmark run.
// Ratios hold mean(a)/mean(b) for every ordered strategy pair "a/b";
// the arithmetic-mean ratio is the contract other components depend on.
type Summary struct {
	Strategies map[string]Stats   `json:"strategies"`
	Ratios     map[string]float64 `json:"ratios"`
}

// Summarize computes per-strategy statistics and all pairwise speedup
// ratios from the raw latency series.
func Summarize(series map[string][]float64) Summary {
	summary := Summary{
		Strategies: make(map[string]Stats, len(series)),
		Ratios:     make(map[string]float64),
	}
	for name, latencies := range series {
		summary.Strategies[name] = reduce(latencies)
	}
	names := sortedKeys(summary.Strategies)
	for _, a := range names {
		for _, b := range names {
			if a == b {
				continue
			}
			mb := summary.Strategies[b].Mean
			if mb == 0 {
				continue
			}
			summary.Ratios[a+"/"+b] = summary.Strategies[a].Mean / mb
		}
	}
	return summary
}

func reduce(latencies []float64) Stats {
	stats := Stats{Samples: len(latencies)}
	if len(latencies) == 0 {
		return stats
	}
	stats.Min = latencies[0]
	stats.Max = latencies[0]
	sum := 0.0
	for _, v := range latencies {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Mean = sum / float64(len(latencies))
	return stats
}

func sortedKeys(m map[string]Stats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
