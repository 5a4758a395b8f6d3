package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"matchbench/internal/bench"
	"matchbench/internal/config"
	"matchbench/internal/db"
	"matchbench/internal/loader"
	"matchbench/internal/report"
	"matchbench/internal/schema"
	"matchbench/internal/uploader"
	"matchbench/internal/util"
	"matchbench/internal/validator"

	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seed := flag.Int64("seed", 0, "override the configured load seed")
	skipLoad := flag.Bool("skip-load", false, "benchmark the existing dataset without reloading")
	skipBench := flag.Bool("skip-bench", false, "reload the dataset without benchmarking")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if data, err := yaml.Marshal(&cfg); err == nil {
		util.Highlightf("config:\n%s", string(data))
	}

	if err := run(context.Background(), cfg, *skipLoad, *skipBench); err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, skipLoad, skipBench bool) error {
	if err := db.EnsureDatabase(ctx, cfg.DSN, cfg.Database); err != nil {
		return err
	}
	exec, err := db.Open(cfg.DSN)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(exec, "db exec")

	val := validator.New()
	variants := make([]schema.Variant, 0, len(cfg.Variants))
	for _, name := range cfg.Variants {
		variant, err := schema.ParseVariant(name)
		if err != nil {
			return err
		}
		if err := schema.Setup(ctx, exec, variant); err != nil {
			return err
		}
		variants = append(variants, variant)
	}

	loadSeed := cfg.Seed
	if skipLoad {
		util.Infof("skipping dataset reload, benchmarking existing data")
	} else {
		loadSeed, err = loader.New(exec, cfg, val.Validate).Reload(ctx)
		if err != nil {
			return err
		}
	}
	if skipBench {
		return nil
	}

	timeout := time.Duration(cfg.Benchmark.StatementTimeoutMs) * time.Millisecond
	runner := bench.NewRunner(exec, val.Validate, timeout)
	series := make(map[string][]float64)
	firstRows := make(map[string]int)
	for _, s := range bench.Strategies(variants) {
		util.Infof("measuring %s: %d iterations, page=%d offset=%d",
			s.Key(), cfg.Benchmark.Iterations, cfg.Benchmark.PageSize, cfg.Benchmark.Offset)
		result, err := runner.Measure(ctx, s, cfg.Benchmark.PageSize, cfg.Benchmark.Offset, cfg.Benchmark.Iterations)
		if err != nil {
			return err
		}
		series[s.Key()] = result.Latencies
		firstRows[s.Key()] = result.FirstRunRows
	}

	summary := report.Summarize(series)
	printSummary(summary)

	return persist(ctx, cfg, loadSeed, summary, series, firstRows)
}

func printSummary(summary report.Summary) {
	names := make([]string, 0, len(summary.Strategies))
	for name := range summary.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := summary.Strategies[name]
		util.Highlightf("%-42s mean=%.2fms min=%.2fms max=%.2fms n=%d",
			name, stats.Mean, stats.Min, stats.Max, stats.Samples)
	}
	ratios := make([]string, 0, len(summary.Ratios))
	for pair := range summary.Ratios {
		ratios = append(ratios, pair)
	}
	sort.Strings(ratios)
	for _, pair := range ratios {
		util.Highlightf("speedup %-80s %.2fx", pair, summary.Ratios[pair])
	}
}

func persist(ctx context.Context, cfg config.Config, seed int64, summary report.Summary, series map[string][]float64, firstRows map[string]int) error {
	reporter := report.New(cfg.Report.OutputDir)
	run, err := reporter.NewRun()
	if err != nil {
		return err
	}
	payload := report.RunReport{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Seed:         seed,
		Dataset:      cfg.Dataset,
		Benchmark:    cfg.Benchmark,
		Summary:      summary,
		Series:       series,
		FirstRunRows: firstRows,
		RunInfo:      cfg.RunInfo,
	}
	if err := reporter.WriteReport(run, payload); err != nil {
		return err
	}
	if err := reporter.WriteLatenciesCSV(run, series); err != nil {
		return err
	}
	if err := reporter.WriteRunArchive(run); err != nil {
		return err
	}
	util.Infof("run artifacts written to %s", run.Dir)

	up := newUploader(cfg.Storage)
	if !up.Enabled() {
		return nil
	}
	location, err := up.UploadDir(ctx, run.Dir)
	if err != nil {
		util.Errorf("upload failed: %v", err)
		return nil
	}
	payload.UploadLocation = location
	if err := reporter.WriteReport(run, payload); err != nil {
		return err
	}
	util.Infof("run uploaded to %s", location)
	return nil
}

func newUploader(storage config.StorageConfig) uploader.Uploader {
	if !storage.CloudEnabled() {
		return uploader.NoopUploader{}
	}
	if s3up, err := uploader.NewS3(storage.S3); err == nil && s3up.Enabled() {
		return s3up
	} else if err != nil {
		util.Warnf("s3 uploader init failed: %v", err)
	}
	if gcsUp, err := uploader.NewGCS(storage.GCS); err == nil && gcsUp.Enabled() {
		return gcsUp
	} else if err != nil {
		util.Warnf("gcs uploader init failed: %v", err)
	}
	return uploader.NoopUploader{}
}
