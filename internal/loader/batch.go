// Package loader reloads the synthetic dataset with bounded batches.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"matchbench/internal/util"

	"github.com/pkg/errors"
)

// ProduceFunc materializes the rows for indexes [start, start+n).
// It is invoked one batch at a time so the full entity set never
// lives in memory.
type ProduceFunc func(start, n int) ([][]any, error)

// Execer is the statement-execution surface the batch writer needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// BatchWriter issues fixed-size multi-row INSERTs, reporting progress at
// batch granularity. Any batch failure aborts the surrounding load.
type BatchWriter struct {
	exec          Execer
	validate      func(string) error
	batchSize     int
	progressEvery int
	timeout       time.Duration
}

// NewBatchWriter returns a writer bound to one store connection pool.
// validate may be nil.
func NewBatchWriter(exec Execer, validate func(string) error, batchSize, progressEvery int, timeout time.Duration) *BatchWriter {
	if batchSize <= 0 {
		batchSize = 10000
	}
	if progressEvery <= 0 {
		progressEvery = 10
	}
	return &BatchWriter{
		exec:          exec,
		validate:      validate,
		batchSize:     batchSize,
		progressEvery: progressEvery,
		timeout:       timeout,
	}
}

// WriteBatches inserts total rows into table, materializing one batch at
// a time via produce.
func (w *BatchWriter) WriteBatches(ctx context.Context, label, table string, columns []string, total int, produce ProduceFunc) error {
	if total < 0 {
		return errors.Errorf("write %s: negative row count %d", label, total)
	}
	written := 0
	batches := 0
	lastBatchRows := -1
	for written < total {
		n := total - written
		if n > w.batchSize {
			n = w.batchSize
		}
		rows, err := produce(written, n)
		if err != nil {
			return errors.Wrapf(err, "produce %s rows", label)
		}
		if len(rows) != n {
			return errors.Errorf("produce %s: got %d rows, want %d", label, len(rows), n)
		}
		stmt := insertSQL(table, columns, n)
		// The statement text only changes when the batch row count does.
		if n != lastBatchRows && w.validate != nil {
			if err := w.validate(stmt); err != nil {
				return errors.Wrapf(err, "insert template for %s", label)
			}
			lastBatchRows = n
		}
		args, err := flattenRows(rows, len(columns))
		if err != nil {
			return errors.Wrapf(err, "flatten %s rows", label)
		}
		if err := w.execBatch(ctx, stmt, args); err != nil {
			return errors.Wrapf(err, "insert %s batch starting at row %d", label, written)
		}
		written += n
		batches++
		if batches%w.progressEvery == 0 {
			util.Progressf("%s: %d/%d rows", label, written, total)
		}
	}
	if batches%w.progressEvery != 0 || batches == 0 {
		util.Progressf("%s: %d/%d rows", label, written, total)
	}
	return nil
}

func (w *BatchWriter) execBatch(ctx context.Context, stmt string, args []any) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	_, err := w.exec.ExecContext(ctx, stmt, args...)
	return err
}

func insertSQL(table string, columns []string, rowCount int) string {
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
	}
	return b.String()
}

func flattenRows(rows [][]any, width int) ([]any, error) {
	args := make([]any, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, errors.Errorf("row %d has %d values, want %d", i, len(row), width)
		}
		args = append(args, row...)
	}
	return args, nil
}
