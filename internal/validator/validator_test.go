package validator

import (
	"strings"
	"testing"
)

func TestValidateAcceptsToolStatements(t *testing.T) {
	v := New()
	statements := []string{
		"CREATE TABLE IF NOT EXISTS distribution_group (id BIGINT NOT NULL, state VARCHAR(16) NOT NULL, PRIMARY KEY (id))",
		"TRUNCATE TABLE distribution_group_matching",
		"INSERT INTO account (id, name) VALUES (?, ?), (?, ?)",
		"SELECT COUNT(*) FROM account_skill",
		"SELECT dg.id, dg.state FROM distribution_group dg JOIN distribution_group_matching m ON m.distribution_group_id = dg.id WHERE dg.state = 'WAITING' GROUP BY dg.id, dg.state ORDER BY dg.id LIMIT ? OFFSET ?",
	}
	if err := v.ValidateAll(statements); err != nil {
		t.Fatalf("valid statements rejected: %v", err)
	}
}

func TestValidateRejectsMalformedSQL(t *testing.T) {
	v := New()
	err := v.Validate("INSERT INTO account (id, name VALUES (?, ?)")
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	if !strings.Contains(err.Error(), "invalid statement") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAllStopsAtFirstError(t *testing.T) {
	v := New()
	err := v.ValidateAll([]string{
		"SELECT 1",
		"SELEKT 2",
		"SELECT 3",
	})
	if err == nil {
		t.Fatalf("expected error for malformed statement")
	}
}
