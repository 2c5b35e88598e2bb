// Package testutil provides a normalized stub database for postgres store tests.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
)

// StubConn records normalized statements for the postgres store during tests.
// The store only issues ping, create-table, upsert, and select statements, so
// the stub models a single bucketed table with per-phase failure toggles.
type StubConn struct {
	Execs      []string
	Tables     map[string][]map[string]any
	Rollbacks  int
	FailPing   bool
	FailExec   bool
	FailBegin  bool
	FailCommit bool
	FailQuery  bool
	RowsErr    error
}

// NewStubDB returns a sql.DB served entirely by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Tables: make(map[string][]map[string]any)}
	return sql.OpenDB(stubConnector{conn: conn}), conn
}

// stubConnector hands the shared connection to database/sql without driver
// registration, acting as both driver.Connector and driver.Driver.
type stubConnector struct {
	conn *StubConn
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c stubConnector) Driver() driver.Driver                        { return c }
func (c stubConnector) Open(string) (driver.Conn, error)             { return c.conn, nil }

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *StubConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	if c.FailBegin {
		return nil, fmt.Errorf("begin fail")
	}
	return &stubTx{conn: c}, nil
}

// ExecContext implements driver.ExecerContext. Inserts are materialized into
// Tables; every other statement succeeds without side effects.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	if foldHasPrefix(strings.TrimSpace(query), "insert into") {
		if err := c.applyInsert(query, args); err != nil {
			return nil, err
		}
	}
	return driver.RowsAffected(1), nil
}

func (c *StubConn) applyInsert(query string, args []driver.NamedValue) error {
	table, cols, err := parseInsert(query)
	if err != nil {
		return err
	}
	if len(cols) != len(args) {
		return fmt.Errorf("column/arg mismatch for %s", table)
	}
	row := make(map[string]any, len(cols))
	for i, col := range cols {
		row[col] = args[i].Value
	}
	if foldContains(query, "on conflict") && len(cols) > 0 {
		c.dropConflicting(table, cols[0], row[cols[0]])
	}
	c.Tables[table] = append(c.Tables[table], row)
	return nil
}

// dropConflicting removes rows whose key column matches, emulating upsert.
func (c *StubConn) dropConflicting(table, keyCol string, keyVal any) {
	var kept []map[string]any
	for _, row := range c.Tables[table] {
		if !equalValues(row[keyCol], keyVal) {
			kept = append(kept, row)
		}
	}
	c.Tables[table] = kept
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if c.FailQuery {
		return nil, fmt.Errorf("query fail")
	}
	if c.Tables == nil {
		c.Tables = make(map[string][]map[string]any)
	}
	table, cols, err := parseSelect(query)
	if err != nil {
		return nil, err
	}
	stored := c.Tables[table]
	projected := make([][]driver.Value, 0, len(stored))
	for _, row := range stored {
		vals := make([]driver.Value, len(cols))
		for i, col := range cols {
			vals[i] = row[col]
		}
		projected = append(projected, vals)
	}
	return &resultSet{cols: cols, rows: projected, err: c.RowsErr}, nil
}

// equalValues compares key-column values, treating byte slices as strings so
// upserts dedupe the way a text column would.
func equalValues(a, b any) bool {
	return asComparable(a) == asComparable(b)
}

func asComparable(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

type stubTx struct {
	conn *StubConn
}

func (t *stubTx) Commit() error {
	if t.conn.FailCommit {
		return fmt.Errorf("commit fail")
	}
	return nil
}

func (t *stubTx) Rollback() error {
	t.conn.Rollbacks++
	return nil
}

// resultSet replays projected rows, then RowsErr or io.EOF.
type resultSet struct {
	cols   []string
	rows   [][]driver.Value
	cursor int
	err    error
}

func (r *resultSet) Columns() []string { return r.cols }
func (r *resultSet) Close() error      { return nil }

func (r *resultSet) Next(dest []driver.Value) error {
	if r.cursor >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.cursor])
	r.cursor++
	return nil
}

func parseInsert(query string) (string, []string, error) {
	idx := foldIndex(query, "into ")
	if idx == -1 {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	rest := strings.TrimSpace(query[idx+len("into "):])
	table, tail, ok := strings.Cut(rest, "(")
	if !ok {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	colList, _, ok := strings.Cut(tail, ")")
	if !ok {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	return strings.ToLower(strings.TrimSpace(table)), splitColumns(colList), nil
}

func parseSelect(query string) (string, []string, error) {
	lower := strings.ToLower(strings.TrimSpace(query))
	rest, ok := strings.CutPrefix(lower, "select ")
	if !ok {
		return "", nil, fmt.Errorf("cannot parse select: %s", query)
	}
	cols, tablePart, ok := strings.Cut(rest, " from ")
	if !ok {
		return "", nil, fmt.Errorf("cannot parse select: %s", query)
	}
	fields := strings.Fields(tablePart)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("cannot parse select: %s", query)
	}
	return fields[0], splitColumns(cols), nil
}

func splitColumns(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}

func foldIndex(s, token string) int {
	return strings.Index(strings.ToLower(s), token)
}

func foldHasPrefix(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), prefix)
}

func foldContains(s, token string) bool {
	return strings.Contains(strings.ToLower(s), token)
}
