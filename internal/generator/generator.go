// Package generator maps row indexes to entity payloads for the fixed
// entity graph, preserving foreign-key validity across dependent tables.
package generator

import (
	"fmt"
	"math/rand"
	"strconv"

	"matchbench/internal/config"

	"github.com/pkg/errors"
)

// MatchType discriminates the polymorphic matching pointer.
type MatchType string

// Matching pointer targets: an account id, an account-group id, or a
// skill code, always serialized to text at the store boundary.
const (
	MatchAccountID      MatchType = "ACCOUNT_ID"
	MatchAccountGroupID MatchType = "ACCOUNT_GROUP_ID"
	MatchSkillCode      MatchType = "SKILL_CODE"
)

// matchCycle fixes the deterministic type assignment by
// (distribution_group_id - 1) mod 3, giving an exactly even three-way
// split across the dataset.
var matchCycle = [3]MatchType{MatchAccountID, MatchAccountGroupID, MatchSkillCode}

// MatchTypeFor returns the matching type for a distribution group id.
func MatchTypeFor(id int64) MatchType {
	return matchCycle[(id-1)%3]
}

// DistributionGroup states. Generation only ever emits WAITING.
const (
	StateWaiting  = "WAITING"
	StateAssigned = "ASSIGNED"
	StateDone     = "DONE"
)

// TranslationType is the constant skill classification.
const TranslationType = "TRANSLATION"

// languages is the fixed set skill codes derive from.
var languages = []string{"EN", "DE", "FR", "ES", "IT", "PL", "PT", "NL", "CS", "SV"}

// MaxSkillCodes is the number of derivable language-pair codes.
func MaxSkillCodes() int {
	return len(languages) * (len(languages) - 1)
}

// languagePair returns the k-th ordered language pair, self-pairs excluded.
func languagePair(k int) (string, string) {
	l := len(languages)
	src := k / (l - 1)
	tgt := k % (l - 1)
	if tgt >= src {
		tgt++
	}
	return languages[src], languages[tgt]
}

// SkillCodes derives the first n skill codes from ordered language pairs.
func SkillCodes(n int) ([]string, error) {
	if n <= 0 {
		return nil, errors.Errorf("skill count must be positive, got %d", n)
	}
	if n > MaxSkillCodes() {
		return nil, errors.Errorf("skill count %d exceeds the %d derivable language-pair codes", n, MaxSkillCodes())
	}
	codes := make([]string, 0, n)
	for k := 0; k < n; k++ {
		src, tgt := languagePair(k)
		codes = append(codes, src+"_"+tgt)
	}
	return codes, nil
}

// MatchTarget is the tagged variant behind the polymorphic pointer.
type MatchTarget struct {
	Type      MatchType
	AccountID int64
	GroupID   int64
	SkillCode string
}

// Pointer serializes the target to its stored text form.
func (t MatchTarget) Pointer() string {
	switch t.Type {
	case MatchAccountID:
		return strconv.FormatInt(t.AccountID, 10)
	case MatchAccountGroupID:
		return strconv.FormatInt(t.GroupID, 10)
	default:
		return t.SkillCode
	}
}

// Generator produces entity rows from zero-based row indexes. Randomness
// is confined to the explicit rand source seeded once per load;
// everything else is a pure function of the index and the RefIndex.
type Generator struct {
	ds    config.Dataset
	rnd   *rand.Rand
	refs  *RefIndex
	codes []string
}

// New validates the cardinalities and returns a seeded Generator.
func New(ds config.Dataset, seed int64) (*Generator, error) {
	codes, err := SkillCodes(ds.Skills)
	if err != nil {
		return nil, err
	}
	return &Generator{
		ds:    ds,
		rnd:   rand.New(rand.NewSource(seed)),
		refs:  &RefIndex{},
		codes: codes,
	}, nil
}

// Refs exposes the reference index the loader populates between phases.
func (g *Generator) Refs() *RefIndex {
	return g.refs
}

// Codes returns the derived skill codes in id order.
func (g *Generator) Codes() []string {
	return g.codes
}

// MatchTargetFor derives the matching target for a distribution group id.
// Modulo derivation guarantees full coverage of the small target tables
// even when distribution groups outnumber them by orders of magnitude.
func (g *Generator) MatchTargetFor(id int64) MatchTarget {
	switch MatchTypeFor(id) {
	case MatchAccountID:
		return MatchTarget{Type: MatchAccountID, AccountID: id%g.refs.Accounts + 1}
	case MatchAccountGroupID:
		return MatchTarget{Type: MatchAccountGroupID, GroupID: id%g.refs.AccountGroups + 1}
	default:
		codes := g.refs.SkillCodes
		return MatchTarget{Type: MatchSkillCode, SkillCode: codes[id%int64(len(codes))]}
	}
}

// pickDistinct selects between lo and hi distinct ids from [1, limit],
// returned in ascending order.
func (g *Generator) pickDistinct(limit, lo, hi int) []int64 {
	count := lo + g.rnd.Intn(hi-lo+1)
	if count > limit {
		count = limit
	}
	perm := g.rnd.Perm(limit)[:count]
	ids := make([]int64, count)
	for i, p := range perm {
		ids[i] = int64(p + 1)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

func accountName(id int64) string {
	return fmt.Sprintf("account_%06d", id)
}

func accountGroupName(id int64) string {
	return fmt.Sprintf("group_%04d", id)
}
