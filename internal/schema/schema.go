// Package schema declares the fixed entity-graph tables and their variants.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Variant selects the base or the index-enriched copy of the schema.
type Variant string

// Schema variants. The indexed variant is structurally identical but
// carries supplementary secondary indexes, so the benchmark can separate
// query-shape effects from indexing effects.
const (
	Base    Variant = "base"
	Indexed Variant = "indexed"
)

// ParseVariant maps a config string to a Variant.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case string(Base):
		return Base, nil
	case string(Indexed):
		return Indexed, nil
	default:
		return "", errors.Errorf("unknown schema variant %q", name)
	}
}

// Suffix returns the table-name suffix for the variant.
func (v Variant) Suffix() string {
	if v == Indexed {
		return "_idx"
	}
	return ""
}

// TableName returns the variant-qualified name of a table.
func (v Variant) TableName(base string) string {
	return base + v.Suffix()
}

// Table describes one table of the fixed entity graph.
type Table struct {
	Name    string
	Columns []string
	Keys    []string
	// Extra secondary indexes present only on the indexed variant.
	ExtraIndexes []string
}

// Tables lists every table in foreign-key dependency order: independent
// entities first, link/junction tables after everything they reference.
var Tables = []Table{
	{
		Name:    "account",
		Columns: []string{"id BIGINT NOT NULL", "name VARCHAR(64) NOT NULL"},
		Keys:    []string{"PRIMARY KEY (id)"},
	},
	{
		Name:    "account_group",
		Columns: []string{"id BIGINT NOT NULL", "name VARCHAR(64) NOT NULL"},
		Keys:    []string{"PRIMARY KEY (id)"},
	},
	{
		Name: "skill",
		Columns: []string{
			"id BIGINT NOT NULL",
			"code VARCHAR(16) NOT NULL",
			"translation_type VARCHAR(32) NOT NULL",
			"source_language VARCHAR(8) NOT NULL",
			"target_language VARCHAR(8) NOT NULL",
		},
		Keys: []string{"PRIMARY KEY (id)", "UNIQUE KEY uq_skill_code (code)"},
	},
	{
		Name:    "task",
		Columns: []string{"id BIGINT NOT NULL"},
		Keys:    []string{"PRIMARY KEY (id)"},
	},
	{
		Name:         "distribution_group",
		Columns:      []string{"id BIGINT NOT NULL", "state VARCHAR(16) NOT NULL"},
		Keys:         []string{"PRIMARY KEY (id)"},
		ExtraIndexes: []string{"KEY idx_dg_state (state)"},
	},
	{
		Name: "account_account_group",
		Columns: []string{
			"id BIGINT NOT NULL",
			"account_id BIGINT NOT NULL",
			"account_group_id BIGINT NOT NULL",
		},
		Keys:         []string{"PRIMARY KEY (id)"},
		ExtraIndexes: []string{"KEY idx_aag_group (account_group_id)"},
	},
	{
		Name: "account_skill",
		Columns: []string{
			"id BIGINT NOT NULL",
			"account_id BIGINT NOT NULL",
			"skill_id BIGINT NOT NULL",
			"skill_code VARCHAR(16) NOT NULL",
		},
		Keys:         []string{"PRIMARY KEY (id)"},
		ExtraIndexes: []string{"KEY idx_as_skill_code (skill_code)"},
	},
	{
		Name: "distribution_group_task",
		Columns: []string{
			"id BIGINT NOT NULL",
			"distribution_group_id BIGINT NOT NULL",
			"task_id BIGINT NOT NULL",
		},
		Keys:         []string{"PRIMARY KEY (id)"},
		ExtraIndexes: []string{"KEY idx_dgt_group (distribution_group_id)"},
	},
	{
		Name: "distribution_group_matching",
		Columns: []string{
			"id BIGINT NOT NULL",
			"distribution_group_id BIGINT NOT NULL",
			"pointer VARCHAR(64) NOT NULL",
			"type VARCHAR(32) NOT NULL",
		},
		Keys: []string{"PRIMARY KEY (id)"},
		ExtraIndexes: []string{
			"KEY idx_dgm_group (distribution_group_id)",
			"KEY idx_dgm_type_pointer (type, pointer)",
		},
	},
}

// TableByName returns a table by its base name, if present.
func TableByName(name string) (Table, bool) {
	for _, tbl := range Tables {
		if tbl.Name == name {
			return tbl, true
		}
	}
	return Table{}, false
}

// DependencyOrder returns variant-qualified table names in insert order.
func DependencyOrder(v Variant) []string {
	out := make([]string, 0, len(Tables))
	for _, tbl := range Tables {
		out = append(out, v.TableName(tbl.Name))
	}
	return out
}

// TruncateOrder returns variant-qualified table names in reverse
// dependency order, safe for truncate-all.
func TruncateOrder(v Variant) []string {
	deps := DependencyOrder(v)
	out := make([]string, 0, len(deps))
	for i := len(deps) - 1; i >= 0; i-- {
		out = append(out, deps[i])
	}
	return out
}

// CreateSQL renders the CREATE TABLE statement for one table and variant.
func CreateSQL(tbl Table, v Variant) string {
	clauses := make([]string, 0, len(tbl.Columns)+len(tbl.Keys)+len(tbl.ExtraIndexes))
	clauses = append(clauses, tbl.Columns...)
	clauses = append(clauses, tbl.Keys...)
	if v == Indexed {
		clauses = append(clauses, tbl.ExtraIndexes...)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", v.TableName(tbl.Name), strings.Join(clauses, ", "))
}

// SetupSQL renders the full declarative setup for a variant.
func SetupSQL(v Variant) []string {
	out := make([]string, 0, len(Tables))
	for _, tbl := range Tables {
		out = append(out, CreateSQL(tbl, v))
	}
	return out
}

// DropSQL renders DROP TABLE statements in reverse dependency order.
func DropSQL(v Variant) []string {
	tables := TruncateOrder(v)
	out := make([]string, 0, len(tables))
	for _, table := range tables {
		out = append(out, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	}
	return out
}

// Execer is the statement-execution surface Setup needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Setup creates every table of a variant if it does not exist yet.
func Setup(ctx context.Context, exec Execer, v Variant) error {
	for _, stmt := range SetupSQL(v) {
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "setup %s schema", v)
		}
	}
	return nil
}

// Drop removes every table of a variant, link tables first.
func Drop(ctx context.Context, exec Execer, v Variant) error {
	for _, stmt := range DropSQL(v) {
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "drop %s schema", v)
		}
	}
	return nil
}
