package generator

import (
	"testing"

	"matchbench/internal/config"
)

func TestAccountRowsShape(t *testing.T) {
	g := newTestGenerator(t, 1)
	rows, err := g.AccountRows(10, 5)
	if err != nil {
		t.Fatalf("account rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0][0] != int64(11) || rows[0][1] != "account_000011" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[4][0] != int64(15) {
		t.Fatalf("unexpected last id: %v", rows[4][0])
	}
}

func TestSkillRowsCarryLanguagePair(t *testing.T) {
	g := newTestGenerator(t, 1)
	rows, err := g.SkillRows(0, 10)
	if err != nil {
		t.Fatalf("skill rows: %v", err)
	}
	for i, row := range rows {
		if len(row) != len(SkillColumns) {
			t.Fatalf("row %d width %d, want %d", i, len(row), len(SkillColumns))
		}
		code := row[1].(string)
		src := row[3].(string)
		tgt := row[4].(string)
		if code != src+"_"+tgt {
			t.Fatalf("code %s does not match pair %s/%s", code, src, tgt)
		}
		if row[2] != TranslationType {
			t.Fatalf("unexpected translation type: %v", row[2])
		}
	}
	if rows[9][1] != "DE_EN" {
		t.Fatalf("tenth code should roll over to DE_EN, got %v", rows[9][1])
	}
}

func TestDistributionGroupRowsAllWaiting(t *testing.T) {
	g := newTestGenerator(t, 1)
	rows, err := g.DistributionGroupRows(0, 100)
	if err != nil {
		t.Fatalf("distribution group rows: %v", err)
	}
	for _, row := range rows {
		if row[1] != StateWaiting {
			t.Fatalf("unexpected state: %v", row[1])
		}
	}
}

func TestDistributionGroupTaskRowsArePositional(t *testing.T) {
	g := newTestGenerator(t, 1)
	rows, err := g.DistributionGroupTaskRows(50, 10)
	if err != nil {
		t.Fatalf("group task rows: %v", err)
	}
	for _, row := range rows {
		if row[0] != row[1] || row[1] != row[2] {
			t.Fatalf("group %v must reference task of the same id: %v", row[1], row)
		}
	}
}

func TestMatchingRowsRequirePopulatedRefs(t *testing.T) {
	g, err := New(testDataset(), 1)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if _, err := g.MatchingRows(0, 10); err == nil {
		t.Fatalf("expected error before accounts are populated")
	}
	g.Refs().SetAccounts(100)
	if _, err := g.MatchingRows(0, 10); err == nil {
		t.Fatalf("expected error before account groups are populated")
	}
	g.Refs().SetAccountGroups(20)
	if _, err := g.MatchingRows(0, 10); err == nil {
		t.Fatalf("expected error before skill codes are populated")
	}
	g.Refs().SetSkillCodes(g.Codes())
	rows, err := g.MatchingRows(0, 10)
	if err != nil {
		t.Fatalf("matching rows: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
}

func TestMatchingRowsOnePerGroup(t *testing.T) {
	g := newTestGenerator(t, 1)
	rows, err := g.MatchingRows(0, 30)
	if err != nil {
		t.Fatalf("matching rows: %v", err)
	}
	for i, row := range rows {
		id := int64(i + 1)
		if row[0] != id || row[1] != id {
			t.Fatalf("row %d must link group %d to itself: %v", i, id, row)
		}
		if row[3] != string(MatchTypeFor(id)) {
			t.Fatalf("row %d type %v, want %s", i, row[3], MatchTypeFor(id))
		}
		if row[2].(string) == "" {
			t.Fatalf("row %d has empty pointer", i)
		}
	}
}

func TestBuildAccountSkillLinksDenormalizedCode(t *testing.T) {
	g := newTestGenerator(t, 5)
	links, err := g.BuildAccountSkillLinks()
	if err != nil {
		t.Fatalf("build skill links: %v", err)
	}
	codes := g.Codes()
	perAccount := map[int64]int{}
	lastID := int64(0)
	for _, row := range links {
		id := row[0].(int64)
		if id != lastID+1 {
			t.Fatalf("link ids must be sequential: got %d after %d", id, lastID)
		}
		lastID = id
		account := row[1].(int64)
		skillID := row[2].(int64)
		if skillID < 1 || skillID > int64(len(codes)) {
			t.Fatalf("skill id out of range: %d", skillID)
		}
		if row[3] != codes[skillID-1] {
			t.Fatalf("denormalized code %v does not match skill %d (%s)", row[3], skillID, codes[skillID-1])
		}
		perAccount[account]++
	}
	if len(perAccount) != 100 {
		t.Fatalf("expected every account to hold skills, got %d accounts", len(perAccount))
	}
	for account, count := range perAccount {
		if count < 1 || count > 5 {
			t.Fatalf("account %d holds %d skills, want 1-5", account, count)
		}
	}
}

func TestBuildAccountGroupLinksMembershipBounds(t *testing.T) {
	g := newTestGenerator(t, 5)
	links, err := g.BuildAccountGroupLinks()
	if err != nil {
		t.Fatalf("build group links: %v", err)
	}
	perAccount := map[int64]map[int64]bool{}
	for _, row := range links {
		account := row[1].(int64)
		group := row[2].(int64)
		if group < 1 || group > 20 {
			t.Fatalf("group id out of range: %d", group)
		}
		if perAccount[account] == nil {
			perAccount[account] = map[int64]bool{}
		}
		if perAccount[account][group] {
			t.Fatalf("account %d linked twice to group %d", account, group)
		}
		perAccount[account][group] = true
	}
	if len(perAccount) != 100 {
		t.Fatalf("expected 100 accounts with memberships, got %d", len(perAccount))
	}
	for account, groups := range perAccount {
		if len(groups) < 1 || len(groups) > 3 {
			t.Fatalf("account %d belongs to %d groups, want 1-3", account, len(groups))
		}
	}
}

func TestBuildLinksRequirePopulatedRefs(t *testing.T) {
	g, err := New(config.Dataset{Accounts: 10, AccountGroups: 5, Skills: 8, DistributionGroups: 10}, 1)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if _, err := g.BuildAccountGroupLinks(); err == nil {
		t.Fatalf("expected error before refs are populated")
	}
	if _, err := g.BuildAccountSkillLinks(); err == nil {
		t.Fatalf("expected error before refs are populated")
	}
}
