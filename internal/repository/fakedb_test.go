package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// fakeDB implements just enough of the database/sql driver interfaces to
// exercise the transactional repository paths without a server. Listings and
// their join rows live in maps; statements run inside a transaction are
// staged and only applied on a successful commit, so tests can fail a
// specific statement or the commit itself and inspect what survived.
type fakeDB struct {
	mu         sync.Mutex
	listings   map[int64]bool
	joins      map[int64]map[int64]bool // listing id -> set of feature ids
	commitErr  error
	execErr    map[string]error // normalized statement -> forced error
	committed  bool
	rolledBack bool
}

func newFakeDB() (*fakeDB, *sql.DB) {
	f := &fakeDB{
		listings: map[int64]bool{},
		joins:    map[int64]map[int64]bool{},
		execErr:  map[string]error{},
	}
	return f, sql.OpenDB(f)
}

func (f *fakeDB) seedListing(id int64, featureIDs ...int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings[id] = true
	set := map[int64]bool{}
	for _, fid := range featureIDs {
		set[fid] = true
	}
	f.joins[id] = set
}

// driver.Connector, so tests reach the pool through sql.OpenDB and no
// global driver registration is needed.
func (f *fakeDB) Connect(context.Context) (driver.Conn, error) { return &fakeConn{db: f}, nil }
func (f *fakeDB) Driver() driver.Driver                        { return f }
func (f *fakeDB) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through sql.OpenDB")
}

func normalizeSQL(q string) string { return strings.Join(strings.Fields(q), " ") }

type fakeConn struct {
	db *fakeDB
	tx *fakeTx
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements not supported")
}
func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *fakeConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	c.tx = &fakeTx{db: c.db, conn: c}
	return c.tx, nil
}

func (c *fakeConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	db := c.db
	db.mu.Lock()
	defer db.mu.Unlock()

	q := normalizeSQL(query)
	if err := db.execErr[q]; err != nil {
		return nil, err
	}
	apply := db.applyFunc(q, args)
	if apply == nil {
		return driver.RowsAffected(1), nil
	}
	if c.tx != nil {
		c.tx.pending = append(c.tx.pending, apply)
	} else {
		apply()
	}
	return driver.RowsAffected(1), nil
}

// applyFunc maps a mutating statement onto the in-memory state. Statements
// without a state effect (refresh token writes) map to nil. Callers hold the
// mutex, and so does fakeTx.Commit when it replays the staged closures.
func (db *fakeDB) applyFunc(q string, args []driver.NamedValue) func() {
	switch q {
	case "DELETE FROM listing_features WHERE listing_id = $1":
		id := args[0].Value.(int64)
		return func() { delete(db.joins, id) }
	case "DELETE FROM listings WHERE id = $1":
		id := args[0].Value.(int64)
		return func() { delete(db.listings, id) }
	case "DELETE FROM listing_features":
		return func() { db.joins = map[int64]map[int64]bool{} }
	case "DELETE FROM listings":
		return func() { db.listings = map[int64]bool{} }
	}
	return nil
}

func (c *fakeConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	db := c.db
	db.mu.Lock()
	defer db.mu.Unlock()

	switch normalizeSQL(query) {
	case "SELECT id FROM listings WHERE id = $1":
		id := args[0].Value.(int64)
		rows := &fakeRows{cols: []string{"id"}}
		if db.listings[id] {
			rows.vals = [][]driver.Value{{id}}
		}
		return rows, nil
	case "SELECT COUNT(*) FROM listing_features WHERE listing_id = $1":
		id := args[0].Value.(int64)
		n := int64(len(db.joins[id]))
		return &fakeRows{cols: []string{"count"}, vals: [][]driver.Value{{n}}}, nil
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

type fakeTx struct {
	db      *fakeDB
	conn    *fakeConn
	pending []func()
}

func (t *fakeTx) Commit() error {
	db := t.db
	db.mu.Lock()
	defer db.mu.Unlock()
	t.conn.tx = nil
	if db.commitErr != nil {
		return db.commitErr
	}
	for _, apply := range t.pending {
		apply()
	}
	db.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.conn.tx = nil
	t.db.rolledBack = true
	return nil
}

type fakeRows struct {
	cols []string
	vals [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.vals) {
		return io.EOF
	}
	copy(dest, r.vals[r.i])
	r.i++
	return nil
}
