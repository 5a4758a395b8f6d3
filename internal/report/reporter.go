package report

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"matchbench/internal/config"
	"matchbench/internal/runinfo"
	"matchbench/internal/util"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Reporter writes benchmark run artifacts to disk.
type Reporter struct {
	OutputDir string
	runSeq    int
}

// Run describes one report directory.
type Run struct {
	ID  string
	Dir string
}

// RunReport is the persisted payload for a benchmark run.
type RunReport struct {
	Timestamp      string               `json:"timestamp"`
	Seed           int64                `json:"seed"`
	Dataset        config.Dataset       `json:"dataset"`
	Benchmark      config.Benchmark     `json:"benchmark"`
	Summary        Summary              `json:"summary"`
	Series         map[string][]float64 `json:"series"`
	FirstRunRows   map[string]int       `json:"first_run_rows"`
	UploadLocation string               `json:"upload_location,omitempty"`
	RunInfo        *runinfo.BasicInfo   `json:"run_info,omitempty"`
}

// New creates a reporter that writes under outputDir.
func New(outputDir string) *Reporter {
	return &Reporter{OutputDir: outputDir}
}

// NewRun allocates a new run directory.
func (r *Reporter) NewRun() (Run, error) {
	r.runSeq++
	runID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		runID = v7.String()
	}
	dir := filepath.Join(r.OutputDir, fmt.Sprintf("run_%04d_%s", r.runSeq, runID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Run{}, err
	}
	return Run{ID: runID, Dir: dir}, nil
}

// WriteReport writes report.json into the run directory.
func (r *Reporter) WriteReport(run Run, payload RunReport) error {
	f, err := os.Create(filepath.Join(run.Dir, "report.json"))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "report output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}

// WriteLatenciesCSV dumps the raw per-run latency series, one column per
// strategy, under samples/latencies.csv.
func (r *Reporter) WriteLatenciesCSV(run Run, series map[string][]float64) error {
	names := make([]string, 0, len(series))
	maxLen := 0
	for name, latencies := range series {
		names = append(names, name)
		if len(latencies) > maxLen {
			maxLen = len(latencies)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(strings.Join(names, ","))
	b.WriteString("\n")
	for i := 0; i < maxLen; i++ {
		cells := make([]string, 0, len(names))
		for _, name := range names {
			latencies := series[name]
			if i < len(latencies) {
				cells = append(cells, strconv.FormatFloat(latencies[i], 'f', 3, 64))
			} else {
				cells = append(cells, "")
			}
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	dir := filepath.Join(run.Dir, "samples")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "latencies.csv"), []byte(b.String()), 0o644)
}

// RunArchiveName is the compressed artifact written per run.
const RunArchiveName = "run.tar.zst"

// WriteRunArchive creates a compressed archive of the run directory.
func (r *Reporter) WriteRunArchive(run Run) (err error) {
	archivePath := filepath.Join(run.Dir, RunArchiveName)
	if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return removeErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()
	file, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(file, "archive output")

	zw, err := zstd.NewWriter(file)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := zw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(zw)
	defer func() {
		if closeErr := tw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	return filepath.WalkDir(run.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(run.Dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, src); err != nil {
			util.CloseWithErr(src, "archive source")
			return err
		}
		util.CloseWithErr(src, "archive source")
		return nil
	})
}
