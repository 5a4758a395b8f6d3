package generator

import "github.com/pkg/errors"

// RefIndex caches the inserted key ranges and skill codes that dependent
// entity generators need, so foreign keys can be synthesized without
// re-querying the store mid-load. Each field is populated strictly after
// its source entity's insert phase completes and is read-only afterwards.
type RefIndex struct {
	Accounts      int64
	AccountGroups int64
	SkillCodes    []string
}

// SetAccounts records the inserted account id range [1, n].
func (r *RefIndex) SetAccounts(n int) {
	r.Accounts = int64(n)
}

// SetAccountGroups records the inserted account-group id range [1, n].
func (r *RefIndex) SetAccountGroups(n int) {
	r.AccountGroups = int64(n)
}

// SetSkillCodes records the inserted skill codes in id order.
func (r *RefIndex) SetSkillCodes(codes []string) {
	r.SkillCodes = codes
}

// RequireAccounts fails if accounts have not been inserted yet.
// Calling a dependent generator before that is a programming error.
func (r *RefIndex) RequireAccounts() error {
	if r.Accounts <= 0 {
		return errors.New("reference index: accounts not populated")
	}
	return nil
}

// RequireAccountGroups fails if account groups have not been inserted yet.
func (r *RefIndex) RequireAccountGroups() error {
	if r.AccountGroups <= 0 {
		return errors.New("reference index: account groups not populated")
	}
	return nil
}

// RequireSkillCodes fails if skills have not been inserted yet.
func (r *RefIndex) RequireSkillCodes() error {
	if len(r.SkillCodes) == 0 {
		return errors.New("reference index: skill codes not populated")
	}
	return nil
}
