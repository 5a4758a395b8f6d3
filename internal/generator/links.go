package generator

// Column lists for the materialized membership link tables.
var (
	AccountGroupLinkColumns = []string{"id", "account_id", "account_group_id"}
	AccountSkillLinkColumns = []string{"id", "account_id", "skill_id", "skill_code"}
)

// Membership bounds per account.
const (
	minGroupsPerAccount = 1
	maxGroupsPerAccount = 3
	minSkillsPerAccount = 1
	maxSkillsPerAccount = 5
)

// BuildAccountGroupLinks materializes the full account-to-group edge set:
// every account belongs to 1-3 distinct groups. The small-table row count
// is only known after random selection, so the slice is built up front
// rather than streamed.
func (g *Generator) BuildAccountGroupLinks() ([][]any, error) {
	if err := g.refs.RequireAccounts(); err != nil {
		return nil, err
	}
	if err := g.refs.RequireAccountGroups(); err != nil {
		return nil, err
	}
	rows := make([][]any, 0, g.ds.Accounts*maxGroupsPerAccount/2)
	id := int64(1)
	for a := int64(1); a <= g.refs.Accounts; a++ {
		for _, groupID := range g.pickDistinct(int(g.refs.AccountGroups), minGroupsPerAccount, maxGroupsPerAccount) {
			rows = append(rows, []any{id, a, groupID})
			id++
		}
	}
	return rows, nil
}

// BuildAccountSkillLinks materializes the account-to-skill edge set:
// every account holds 1-5 distinct skills. skill_code is a denormalized
// copy of the referenced skill's code and must equal it at generation time.
func (g *Generator) BuildAccountSkillLinks() ([][]any, error) {
	if err := g.refs.RequireAccounts(); err != nil {
		return nil, err
	}
	if err := g.refs.RequireSkillCodes(); err != nil {
		return nil, err
	}
	codes := g.refs.SkillCodes
	rows := make([][]any, 0, g.ds.Accounts*maxSkillsPerAccount/2)
	id := int64(1)
	for a := int64(1); a <= g.refs.Accounts; a++ {
		for _, skillID := range g.pickDistinct(len(codes), minSkillsPerAccount, maxSkillsPerAccount) {
			rows = append(rows, []any{id, a, skillID, codes[skillID-1]})
			id++
		}
	}
	return rows, nil
}
