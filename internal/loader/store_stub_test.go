package loader

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
)

var stubSeq int64

// stubState tracks statements and per-table row counts behind a fake
// database/sql driver, so Reload can be exercised without a server.
type stubState struct {
	mu         sync.Mutex
	statements []string
	counts     map[string]int
	// misreport shifts COUNT(*) answers per table to simulate a store
	// that lost rows mid-load.
	misreport map[string]int
}

func (s *stubState) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.statements))
	copy(out, s.statements)
	return out
}

type stubDriver struct {
	state *stubState
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return &stubConn{state: d.state}, nil
}

type stubConn struct {
	state *stubState
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements not supported")
}

func (c *stubConn) Close() error {
	return nil
}

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *stubConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	c.state.statements = append(c.state.statements, query)
	fields := strings.Fields(query)
	switch {
	case strings.HasPrefix(query, "TRUNCATE TABLE "):
		c.state.counts[fields[2]] = 0
	case strings.HasPrefix(query, "INSERT INTO "):
		// Every row group in the multi-row VALUES list opens with "(?".
		c.state.counts[fields[2]] += strings.Count(query, "(?")
	}
	return driver.RowsAffected(0), nil
}

func (c *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if !strings.HasPrefix(query, "SELECT COUNT(*) FROM ") {
		return nil, errors.Errorf("unexpected query: %s", query)
	}
	table := strings.Fields(query)[3]
	c.state.mu.Lock()
	n := c.state.counts[table] + c.state.misreport[table]
	c.state.mu.Unlock()
	return &countRows{value: int64(n)}, nil
}

type countRows struct {
	value int64
	done  bool
}

func (r *countRows) Columns() []string {
	return []string{"count"}
}

func (r *countRows) Close() error {
	return nil
}

func (r *countRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	dest[0] = r.value
	r.done = true
	return nil
}

func newStubDB(t *testing.T) (*sql.DB, *stubState) {
	t.Helper()
	state := &stubState{counts: map[string]int{}, misreport: map[string]int{}}
	name := fmt.Sprintf("loaderstub-%d", atomic.AddInt64(&stubSeq, 1))
	sql.Register(name, &stubDriver{state: state})
	db, err := sql.Open(name, "stub")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, state
}
