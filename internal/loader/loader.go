package loader

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"matchbench/internal/config"
	"matchbench/internal/generator"
	"matchbench/internal/schema"
	"matchbench/internal/util"

	"github.com/pkg/errors"
)

// Store is the surface the loader needs from the connection pool.
type Store interface {
	Execer
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Loader orchestrates truncate-and-reload of the full dataset across
// every configured schema variant.
type Loader struct {
	store    Store
	cfg      config.Config
	validate func(string) error
}

// New returns a Loader. validate may be nil.
func New(store Store, cfg config.Config, validate func(string) error) *Loader {
	return &Loader{store: store, cfg: cfg, validate: validate}
}

// phase couples one entity's write pass with the reference-index
// snapshot taken immediately after it completes.
type phase struct {
	label   string
	table   string
	columns []string
	total   int
	produce ProduceFunc
	after   func()
}

// Reload destroys and regenerates the dataset in every configured
// variant. Variants reuse the same seed so they carry identical content.
// It returns the seed actually used.
func (l *Loader) Reload(ctx context.Context) (int64, error) {
	seed := l.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	util.Infof("reloading dataset, seed=%d", seed)
	start := time.Now()
	for _, name := range l.cfg.Variants {
		variant, err := schema.ParseVariant(name)
		if err != nil {
			return 0, err
		}
		if err := l.reloadVariant(ctx, variant, seed); err != nil {
			return 0, errors.Wrapf(err, "reload %s variant", variant)
		}
	}
	util.Infof("reload finished in %s", time.Since(start).Round(time.Millisecond))
	return seed, nil
}

func (l *Loader) reloadVariant(ctx context.Context, variant schema.Variant, seed int64) error {
	gen, err := generator.New(l.cfg.Dataset, seed)
	if err != nil {
		return err
	}
	if err := l.truncateAll(ctx, variant); err != nil {
		return err
	}

	ds := l.cfg.Dataset
	timeout := time.Duration(l.cfg.Benchmark.StatementTimeoutMs) * time.Millisecond
	writer := NewBatchWriter(l.store, l.validate, ds.BatchSize, ds.ProgressEveryBatches, timeout)
	refs := gen.Refs()
	expected := map[string]int{}

	// Independent entities first; each snapshot lands in the reference
	// index only once the insert phase is complete.
	independents := []phase{
		{"account", "account", generator.AccountColumns, ds.Accounts, gen.AccountRows,
			func() { refs.SetAccounts(ds.Accounts) }},
		{"account_group", "account_group", generator.AccountGroupColumns, ds.AccountGroups, gen.AccountGroupRows,
			func() { refs.SetAccountGroups(ds.AccountGroups) }},
		{"skill", "skill", generator.SkillColumns, ds.Skills, gen.SkillRows,
			func() { refs.SetSkillCodes(gen.Codes()) }},
		{"task", "task", generator.TaskColumns, ds.DistributionGroups, gen.TaskRows, nil},
		{"distribution_group", "distribution_group", generator.DistributionGroupColumns, ds.DistributionGroups, gen.DistributionGroupRows, nil},
	}
	for _, p := range independents {
		if err := l.runPhase(ctx, writer, variant, p, expected); err != nil {
			return err
		}
	}

	// Link tables, in dependency order. The two account edge sets have
	// randomized cardinality, so they are materialized before writing.
	groupLinks, err := gen.BuildAccountGroupLinks()
	if err != nil {
		return err
	}
	skillLinks, err := gen.BuildAccountSkillLinks()
	if err != nil {
		return err
	}
	links := []phase{
		{"account_account_group", "account_account_group", generator.AccountGroupLinkColumns, len(groupLinks), sliceProducer(groupLinks), nil},
		{"account_skill", "account_skill", generator.AccountSkillLinkColumns, len(skillLinks), sliceProducer(skillLinks), nil},
		{"distribution_group_task", "distribution_group_task", generator.DistributionGroupTaskColumns, ds.DistributionGroups, gen.DistributionGroupTaskRows, nil},
		{"distribution_group_matching", "distribution_group_matching", generator.MatchingColumns, ds.DistributionGroups, gen.MatchingRows, nil},
	}
	for _, p := range links {
		if err := l.runPhase(ctx, writer, variant, p, expected); err != nil {
			return err
		}
	}

	return l.verifyCounts(ctx, variant, expected)
}

func (l *Loader) runPhase(ctx context.Context, writer *BatchWriter, variant schema.Variant, p phase, expected map[string]int) error {
	table := variant.TableName(p.table)
	if err := writer.WriteBatches(ctx, table, table, p.columns, p.total, p.produce); err != nil {
		return err
	}
	expected[p.table] = p.total
	if p.after != nil {
		p.after()
	}
	return nil
}

func (l *Loader) truncateAll(ctx context.Context, variant schema.Variant) error {
	for _, table := range schema.TruncateOrder(variant) {
		stmt := fmt.Sprintf("TRUNCATE TABLE %s", table)
		if l.validate != nil {
			if err := l.validate(stmt); err != nil {
				return err
			}
		}
		if _, err := l.store.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "truncate %s", table)
		}
	}
	return nil
}

// verifyCounts surfaces partial loads: a count mismatch means the store
// must not be benchmarked until reloaded.
func (l *Loader) verifyCounts(ctx context.Context, variant schema.Variant, expected map[string]int) error {
	for _, tbl := range schema.Tables {
		want, ok := expected[tbl.Name]
		if !ok {
			return errors.Errorf("no rows were written to %s; dataset is incomplete", tbl.Name)
		}
		table := variant.TableName(tbl.Name)
		var got int
		row := l.store.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
		if err := row.Scan(&got); err != nil {
			return errors.Wrapf(err, "count %s", table)
		}
		if got != want {
			return errors.Errorf("%s holds %d rows, want %d; dataset is incomplete", table, got, want)
		}
	}
	return nil
}

func sliceProducer(rows [][]any) ProduceFunc {
	return func(start, n int) ([][]any, error) {
		if start < 0 || start+n > len(rows) {
			return nil, errors.Errorf("batch [%d, %d) out of range for %d materialized rows", start, start+n, len(rows))
		}
		return rows[start : start+n], nil
	}
}
