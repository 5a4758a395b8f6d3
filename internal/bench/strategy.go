// Package bench measures competing query strategies against the
// loaded dataset.
package bench

import (
	"fmt"

	"matchbench/internal/schema"
)

// Strategy is a named, parameterized query template bound to one schema
// variant. Page size and offset are the only runtime parameters.
type Strategy struct {
	Name    string
	Variant schema.Variant
	SQL     string
}

// Key identifies the strategy in summaries: "<shape>/<variant>".
func (s Strategy) Key() string {
	return s.Name + "/" + string(s.Variant)
}

// Strategy shape names.
const (
	ShapeOuterJoinGroup  = "outer-join-and-group"
	ShapeUnionInnerJoins = "union-of-inner-joins"
)

// OuterJoinGroup renders the single-query shape: the fact table joined
// to its matching table, with one discriminated outer join per matching
// type, deduplicated by grouping.
func OuterJoinGroup(v schema.Variant) Strategy {
	sql := fmt.Sprintf(`SELECT dg.id, dg.state
FROM %s dg
JOIN %s m ON m.distribution_group_id = dg.id
LEFT JOIN %s a ON m.type = 'ACCOUNT_ID' AND a.id = CAST(m.pointer AS UNSIGNED)
LEFT JOIN %s ag ON m.type = 'ACCOUNT_GROUP_ID' AND ag.account_group_id = CAST(m.pointer AS UNSIGNED)
LEFT JOIN %s sk ON m.type = 'SKILL_CODE' AND sk.skill_code = m.pointer
WHERE dg.state = 'WAITING'
GROUP BY dg.id, dg.state
ORDER BY dg.id
LIMIT ? OFFSET ?`,
		v.TableName("distribution_group"),
		v.TableName("distribution_group_matching"),
		v.TableName("account"),
		v.TableName("account_account_group"),
		v.TableName("account_skill"))
	return Strategy{Name: ShapeOuterJoinGroup, Variant: v, SQL: sql}
}

// UnionInnerJoins renders the three-branch shape: one inner-join query
// per matching type, combined by an all-preserving union and paginated
// after the union. Branches are disjoint by type; the link-table
// branches deduplicate their own fan-out.
func UnionInnerJoins(v schema.Variant) Strategy {
	dg := v.TableName("distribution_group")
	m := v.TableName("distribution_group_matching")
	sql := fmt.Sprintf(`SELECT u.id, u.state FROM (
SELECT dg.id AS id, dg.state AS state
FROM %s dg
JOIN %s m ON m.distribution_group_id = dg.id AND m.type = 'ACCOUNT_ID'
JOIN %s a ON a.id = CAST(m.pointer AS UNSIGNED)
WHERE dg.state = 'WAITING'
UNION ALL
SELECT DISTINCT dg.id AS id, dg.state AS state
FROM %s dg
JOIN %s m ON m.distribution_group_id = dg.id AND m.type = 'ACCOUNT_GROUP_ID'
JOIN %s ag ON ag.account_group_id = CAST(m.pointer AS UNSIGNED)
WHERE dg.state = 'WAITING'
UNION ALL
SELECT DISTINCT dg.id AS id, dg.state AS state
FROM %s dg
JOIN %s m ON m.distribution_group_id = dg.id AND m.type = 'SKILL_CODE'
JOIN %s sk ON sk.skill_code = m.pointer
WHERE dg.state = 'WAITING'
) u
ORDER BY u.id
LIMIT ? OFFSET ?`,
		dg, m, v.TableName("account"),
		dg, m, v.TableName("account_account_group"),
		dg, m, v.TableName("account_skill"))
	return Strategy{Name: ShapeUnionInnerJoins, Variant: v, SQL: sql}
}

// Strategies returns every (shape, variant) pair for the given variants.
func Strategies(variants []schema.Variant) []Strategy {
	out := make([]Strategy, 0, 2*len(variants))
	for _, v := range variants {
		out = append(out, OuterJoinGroup(v), UnionInnerJoins(v))
	}
	return out
}
