package generator

// Column lists match the insert order of every row producer in this file.
var (
	AccountColumns               = []string{"id", "name"}
	AccountGroupColumns          = []string{"id", "name"}
	SkillColumns                 = []string{"id", "code", "translation_type", "source_language", "target_language"}
	TaskColumns                  = []string{"id"}
	DistributionGroupColumns     = []string{"id", "state"}
	DistributionGroupTaskColumns = []string{"id", "distribution_group_id", "task_id"}
	MatchingColumns              = []string{"id", "distribution_group_id", "pointer", "type"}
)

// AccountRows produces accounts for row indexes [start, start+n).
func (g *Generator) AccountRows(start, n int) ([][]any, error) {
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		id := int64(start + i + 1)
		rows = append(rows, []any{id, accountName(id)})
	}
	return rows, nil
}

// AccountGroupRows produces account groups for row indexes [start, start+n).
func (g *Generator) AccountGroupRows(start, n int) ([][]any, error) {
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		id := int64(start + i + 1)
		rows = append(rows, []any{id, accountGroupName(id)})
	}
	return rows, nil
}

// SkillRows produces skills for row indexes [start, start+n).
func (g *Generator) SkillRows(start, n int) ([][]any, error) {
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		k := start + i
		src, tgt := languagePair(k)
		rows = append(rows, []any{int64(k + 1), g.codes[k], TranslationType, src, tgt})
	}
	return rows, nil
}

// TaskRows produces tasks for row indexes [start, start+n).
func (g *Generator) TaskRows(start, n int) ([][]any, error) {
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []any{int64(start + i + 1)})
	}
	return rows, nil
}

// DistributionGroupRows produces distribution groups, all in state WAITING.
func (g *Generator) DistributionGroupRows(start, n int) ([][]any, error) {
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []any{int64(start + i + 1), StateWaiting})
	}
	return rows, nil
}

// DistributionGroupTaskRows produces the positional 1:1 group-task links:
// distribution group i references task i.
func (g *Generator) DistributionGroupTaskRows(start, n int) ([][]any, error) {
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		id := int64(start + i + 1)
		rows = append(rows, []any{id, id, id})
	}
	return rows, nil
}

// MatchingRows produces exactly one matching row per distribution group.
// The type cycles deterministically and the pointer is derived by modulo
// over the target entity's key range.
func (g *Generator) MatchingRows(start, n int) ([][]any, error) {
	if err := g.refs.RequireAccounts(); err != nil {
		return nil, err
	}
	if err := g.refs.RequireAccountGroups(); err != nil {
		return nil, err
	}
	if err := g.refs.RequireSkillCodes(); err != nil {
		return nil, err
	}
	rows := make([][]any, 0, n)
	for i := 0; i < n; i++ {
		id := int64(start + i + 1)
		target := g.MatchTargetFor(id)
		rows = append(rows, []any{id, id, target.Pointer(), string(target.Type)})
	}
	return rows, nil
}
