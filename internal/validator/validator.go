// Package validator checks statements before they reach the store.
package validator

import (
	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pkg/errors"

	_ "github.com/pingcap/tidb/pkg/types/parser_driver" // Register TiDB parser driver.
)

// Validator wraps the TiDB parser for SQL validation.
//
// Every INSERT, TRUNCATE, and SELECT this tool issues is a fixed
// template. A statement that fails to parse is a programming error,
// not a store error, so callers abort instead of retrying.
type Validator struct {
	parser *parser.Parser
}

// New returns a Validator instance.
func New() *Validator {
	return &Validator{parser: parser.New()}
}

// Validate parses a SQL statement and returns any syntax error.
func (v *Validator) Validate(sql string) error {
	_, _, err := v.parser.Parse(sql, "", "")
	if err != nil {
		return errors.Wrap(err, "invalid statement")
	}
	return nil
}

// ValidateAll parses each statement and returns the first syntax error.
func (v *Validator) ValidateAll(statements []string) error {
	for _, sql := range statements {
		if err := v.Validate(sql); err != nil {
			return err
		}
	}
	return nil
}
