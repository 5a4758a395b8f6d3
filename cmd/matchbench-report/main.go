package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"matchbench/internal/report"
)

// RunEntry pairs a loaded run report with the directory it came from.
type RunEntry struct {
	Dir    string           `json:"dir"`
	Report report.RunReport `json:"report"`
}

// MergedReport aggregates statistics across a set of runs.
type MergedReport struct {
	Runs       int                     `json:"runs"`
	Strategies map[string]report.Stats `json:"strategies"`
	Ratios     map[string]float64      `json:"ratios"`
}

func main() {
	input := flag.String("dir", "reports", "directory containing run_* subdirectories")
	output := flag.String("output", "", "optional path for merged JSON output")
	flag.Parse()

	runs, err := loadLocalRuns(*input)
	if err != nil {
		fail("failed to read runs from %s: %v", *input, err)
	}
	if len(runs) == 0 {
		fail("no runs with report.json found under %s", *input)
	}

	merged := mergeRuns(runs)
	printMerged(merged)

	if *output == "" {
		return
	}
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		fail("failed to encode merged report: %v", err)
	}
	if err := os.WriteFile(*output, append(data, '\n'), 0o644); err != nil {
		fail("failed to write %s: %v", *output, err)
	}
	fmt.Printf("merged report for %d runs written to %s\n", merged.Runs, *output)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func loadLocalRuns(root string) ([]RunEntry, error) {
	dirs, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	runs := make([]RunEntry, 0, len(dirs))
	for _, dirEntry := range dirs {
		if !dirEntry.IsDir() {
			continue
		}
		dir := filepath.Join(root, dirEntry.Name())
		data, err := os.ReadFile(filepath.Join(dir, "report.json"))
		if err != nil {
			continue
		}
		var payload report.RunReport
		if err := json.Unmarshal(data, &payload); err != nil {
			continue
		}
		runs = append(runs, RunEntry{Dir: dir, Report: payload})
	}
	return runs, nil
}

// mergeRuns combines per-run statistics into one view. Means are weighted
// by sample count so short and long runs contribute proportionally.
func mergeRuns(runs []RunEntry) MergedReport {
	merged := MergedReport{
		Runs:       len(runs),
		Strategies: map[string]report.Stats{},
		Ratios:     map[string]float64{},
	}
	weighted := map[string]float64{}
	for _, run := range runs {
		for name, stats := range run.Report.Summary.Strategies {
			if stats.Samples == 0 {
				continue
			}
			agg, seen := merged.Strategies[name]
			if !seen {
				agg = report.Stats{Min: stats.Min, Max: stats.Max}
			}
			weighted[name] += stats.Mean * float64(stats.Samples)
			agg.Samples += stats.Samples
			if stats.Min < agg.Min {
				agg.Min = stats.Min
			}
			if stats.Max > agg.Max {
				agg.Max = stats.Max
			}
			merged.Strategies[name] = agg
		}
	}
	for name, agg := range merged.Strategies {
		agg.Mean = weighted[name] / float64(agg.Samples)
		merged.Strategies[name] = agg
	}
	names := sortedNames(merged.Strategies)
	for _, a := range names {
		for _, b := range names {
			if a == b {
				continue
			}
			if mean := merged.Strategies[b].Mean; mean > 0 {
				merged.Ratios[a+"/"+b] = merged.Strategies[a].Mean / mean
			}
		}
	}
	return merged
}

func printMerged(merged MergedReport) {
	fmt.Printf("merged %d runs\n", merged.Runs)
	for _, name := range sortedNames(merged.Strategies) {
		stats := merged.Strategies[name]
		fmt.Printf("%-42s mean=%.2fms min=%.2fms max=%.2fms n=%d\n",
			name, stats.Mean, stats.Min, stats.Max, stats.Samples)
	}
	ratios := make([]string, 0, len(merged.Ratios))
	for pair := range merged.Ratios {
		ratios = append(ratios, pair)
	}
	sort.Strings(ratios)
	for _, pair := range ratios {
		fmt.Printf("speedup %-80s %.2fx\n", pair, merged.Ratios[pair])
	}
}

func sortedNames(strategies map[string]report.Stats) []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
