package generator

import (
	"strconv"
	"testing"

	"matchbench/internal/config"
)

func testDataset() config.Dataset {
	return config.Dataset{
		Accounts:           100,
		AccountGroups:      20,
		Skills:             50,
		DistributionGroups: 300,
	}
}

func newTestGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	g, err := New(testDataset(), seed)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	g.Refs().SetAccounts(100)
	g.Refs().SetAccountGroups(20)
	g.Refs().SetSkillCodes(g.Codes())
	return g
}

func TestSkillCodesDerivation(t *testing.T) {
	codes, err := SkillCodes(12)
	if err != nil {
		t.Fatalf("skill codes: %v", err)
	}
	// The first 9 pairs keep EN as source, then DE takes over.
	want := []string{"EN_DE", "EN_FR", "EN_ES", "EN_IT", "EN_PL", "EN_PT", "EN_NL", "EN_CS", "EN_SV", "DE_EN", "DE_FR", "DE_ES"}
	if len(codes) != len(want) {
		t.Fatalf("expected %d codes, got %d", len(want), len(codes))
	}
	for i, code := range codes {
		if code != want[i] {
			t.Fatalf("code %d: got %s, want %s", i, code, want[i])
		}
	}
}

func TestSkillCodesUniqueAtMaximum(t *testing.T) {
	codes, err := SkillCodes(MaxSkillCodes())
	if err != nil {
		t.Fatalf("skill codes: %v", err)
	}
	seen := map[string]bool{}
	for _, code := range codes {
		if seen[code] {
			t.Fatalf("duplicate skill code %s", code)
		}
		seen[code] = true
		if len(code) != 5 || code[2] != '_' {
			t.Fatalf("malformed skill code %s", code)
		}
		if code[:2] == code[3:] {
			t.Fatalf("self-pair skill code %s", code)
		}
	}
}

func TestSkillCodesRejectsBadCounts(t *testing.T) {
	if _, err := SkillCodes(0); err == nil {
		t.Fatalf("expected error for zero skills")
	}
	if _, err := SkillCodes(MaxSkillCodes() + 1); err == nil {
		t.Fatalf("expected error beyond derivable pair count")
	}
}

func TestNewRejectsOversizedSkillCount(t *testing.T) {
	ds := testDataset()
	ds.Skills = MaxSkillCodes() + 1
	if _, err := New(ds, 1); err == nil {
		t.Fatalf("expected error for oversized skill count")
	}
}

func TestMatchTypeCycle(t *testing.T) {
	want := []MatchType{MatchAccountID, MatchAccountGroupID, MatchSkillCode}
	for id := int64(1); id <= 9; id++ {
		if got := MatchTypeFor(id); got != want[(id-1)%3] {
			t.Fatalf("id %d: got %s, want %s", id, got, want[(id-1)%3])
		}
	}
}

func TestMatchTypeSplitIsEven(t *testing.T) {
	counts := map[MatchType]int{}
	total := int64(1000)
	for id := int64(1); id <= total; id++ {
		counts[MatchTypeFor(id)]++
	}
	for _, mt := range []MatchType{MatchAccountID, MatchAccountGroupID, MatchSkillCode} {
		diff := counts[mt] - int(total/3)
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			t.Fatalf("uneven split for %s: %d of %d", mt, counts[mt], total)
		}
	}
}

func TestMatchTargetPointsAtExistingRows(t *testing.T) {
	g := newTestGenerator(t, 7)
	codeSet := map[string]bool{}
	for _, code := range g.Codes() {
		codeSet[code] = true
	}
	for id := int64(1); id <= 300; id++ {
		target := g.MatchTargetFor(id)
		switch target.Type {
		case MatchAccountID:
			if target.AccountID < 1 || target.AccountID > 100 {
				t.Fatalf("account id out of range: %d", target.AccountID)
			}
			if target.Pointer() != strconv.FormatInt(target.AccountID, 10) {
				t.Fatalf("pointer mismatch: %s vs %d", target.Pointer(), target.AccountID)
			}
		case MatchAccountGroupID:
			if target.GroupID < 1 || target.GroupID > 20 {
				t.Fatalf("group id out of range: %d", target.GroupID)
			}
		case MatchSkillCode:
			if !codeSet[target.SkillCode] {
				t.Fatalf("pointer references unknown skill code %s", target.SkillCode)
			}
			if target.Pointer() != target.SkillCode {
				t.Fatalf("pointer mismatch: %s vs %s", target.Pointer(), target.SkillCode)
			}
		}
	}
}

func TestMatchTargetFullCoverageOfSmallTables(t *testing.T) {
	g := newTestGenerator(t, 7)
	groups := map[int64]bool{}
	for id := int64(1); id <= 300; id++ {
		target := g.MatchTargetFor(id)
		if target.Type == MatchAccountGroupID {
			groups[target.GroupID] = true
		}
	}
	if len(groups) != 20 {
		t.Fatalf("expected all 20 groups referenced, got %d", len(groups))
	}
}

func TestSameSeedProducesSameLinks(t *testing.T) {
	a := newTestGenerator(t, 99)
	b := newTestGenerator(t, 99)
	linksA, err := a.BuildAccountGroupLinks()
	if err != nil {
		t.Fatalf("build links: %v", err)
	}
	linksB, err := b.BuildAccountGroupLinks()
	if err != nil {
		t.Fatalf("build links: %v", err)
	}
	if len(linksA) != len(linksB) {
		t.Fatalf("length mismatch: %d vs %d", len(linksA), len(linksB))
	}
	for i := range linksA {
		for j := range linksA[i] {
			if linksA[i][j] != linksB[i][j] {
				t.Fatalf("row %d differs: %v vs %v", i, linksA[i], linksB[i])
			}
		}
	}
}

func TestPickDistinctBoundsAndOrder(t *testing.T) {
	g := newTestGenerator(t, 3)
	for i := 0; i < 200; i++ {
		ids := g.pickDistinct(20, 1, 3)
		if len(ids) < 1 || len(ids) > 3 {
			t.Fatalf("membership count out of bounds: %d", len(ids))
		}
		seen := map[int64]bool{}
		for j, id := range ids {
			if id < 1 || id > 20 {
				t.Fatalf("id out of range: %d", id)
			}
			if seen[id] {
				t.Fatalf("duplicate id %d in %v", id, ids)
			}
			seen[id] = true
			if j > 0 && ids[j-1] >= id {
				t.Fatalf("ids not ascending: %v", ids)
			}
		}
	}
}

func TestPickDistinctClampsToLimit(t *testing.T) {
	g := newTestGenerator(t, 3)
	for i := 0; i < 50; i++ {
		ids := g.pickDistinct(2, 1, 5)
		if len(ids) > 2 {
			t.Fatalf("picked more ids than exist: %v", ids)
		}
	}
}
