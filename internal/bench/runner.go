package bench

import (
	"context"
	"database/sql"
	"time"

	"matchbench/internal/util"

	"github.com/pkg/errors"
)

// Querier is the read surface the runner needs from the pool.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Result holds one strategy's measured latency series.
type Result struct {
	Strategy     string
	Variant      string
	Latencies    []float64 // milliseconds per run
	FirstRunRows int
}

// Runner executes strategies against a warmed, static dataset.
// Runs are strictly sequential and must not overlap a reload.
type Runner struct {
	q        Querier
	validate func(string) error
	timeout  time.Duration
}

// NewRunner returns a Runner. validate may be nil.
func NewRunner(q Querier, validate func(string) error, timeout time.Duration) *Runner {
	return &Runner{q: q, validate: validate, timeout: timeout}
}

// Measure executes the strategy iterations times and records wall-clock
// latency from dispatch until the last row is materialized client-side.
// There is no warm-up discard: the first run is measured like the rest,
// so a cold cache shows up in the min/max spread rather than being hidden.
func (r *Runner) Measure(ctx context.Context, s Strategy, pageSize, offset, iterations int) (Result, error) {
	if iterations <= 0 {
		return Result{}, errors.Errorf("iterations must be positive, got %d", iterations)
	}
	if pageSize < 0 || offset < 0 {
		return Result{}, errors.Errorf("page size and offset must be non-negative, got %d/%d", pageSize, offset)
	}
	if r.validate != nil {
		if err := r.validate(s.SQL); err != nil {
			return Result{}, errors.Wrapf(err, "strategy %s", s.Key())
		}
	}
	result := Result{
		Strategy:  s.Name,
		Variant:   string(s.Variant),
		Latencies: make([]float64, 0, iterations),
	}
	for i := 0; i < iterations; i++ {
		elapsed, rowCount, err := r.runOnce(ctx, s.SQL, pageSize, offset)
		if err != nil {
			return Result{}, errors.Wrapf(err, "strategy %s run %d", s.Key(), i+1)
		}
		result.Latencies = append(result.Latencies, float64(elapsed.Microseconds())/1000.0)
		if i == 0 {
			result.FirstRunRows = rowCount
		} else if rowCount != result.FirstRunRows {
			util.Warnf("strategy %s run %d returned %d rows, first run returned %d", s.Key(), i+1, rowCount, result.FirstRunRows)
		}
	}
	return result, nil
}

// runOnce executes the query and drains every row, so the measured time
// includes network, execution, and client-side row materialization.
func (r *Runner) runOnce(ctx context.Context, query string, pageSize, offset int) (time.Duration, int, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	start := time.Now()
	rows, err := r.q.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return 0, 0, err
	}
	count, err := drainRows(rows)
	if err != nil {
		return 0, 0, err
	}
	return time.Since(start), count, nil
}

func drainRows(rows *sql.Rows) (int, error) {
	defer util.CloseWithErr(rows, "strategy rows")
	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	values := make([][]byte, len(cols))
	scanArgs := make([]any, len(cols))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	count := 0
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}
