package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"holma/pkg/domain"
)

func TestNewStoreCreatesTableAndLoadsSnapshot(t *testing.T) {
	ctx := context.Background()
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(driverName, _ string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("expected pgx driver, got %s", driverName)
		}
		return db, nil
	})
	defer restore()

	store, err := NewStore(ctx, "", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if !conn.sawExec("CREATE TABLE IF NOT EXISTS state") {
		t.Fatalf("expected state table ddl, got execs: %v", conn.execs)
	}

	var personID int64
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		personID = tx.Allocate(domain.EntityPerson)
		return tx.Insert(domain.Person{Base: domain.Base{ID: personID, Name: "Ada"}})
	}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(conn.buckets) != 8 {
		t.Fatalf("expected every bucket persisted, got %d", len(conn.buckets))
	}
	if !strings.Contains(string(conn.buckets["persons"]), `"Ada"`) {
		t.Fatalf("expected person payload, got %s", conn.buckets["persons"])
	}

	reloaded, err := NewStore(ctx, "ignored", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := reloaded.Get(domain.EntityPerson, personID); !ok {
		t.Fatalf("expected person hydrated from snapshot")
	}
}

func TestNewStoreErrors(t *testing.T) {
	ctx := context.Background()

	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("dial") })
	if _, err := NewStore(ctx, "dsn", nil); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open error, got %v", err)
	}
	restore()

	db, conn := newStubDB()
	conn.failExec = true
	restore = OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	if _, err := NewStore(ctx, "dsn", nil); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}
	restore()

	db, conn = newStubDB()
	conn.buckets["groups"] = []byte("not-json")
	restore = OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(ctx, "dsn", nil); err == nil || !strings.Contains(err.Error(), "decode groups") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRunInTransactionReportsPersistFailure(t *testing.T) {
	ctx := context.Background()
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	store, err := NewStore(ctx, "dsn", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	conn.failCommit = true
	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.Insert(domain.Retailer{Base: domain.Base{ID: tx.Allocate(domain.EntityRetailer), Name: "Shop"}})
	})
	if err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit failure, got %v", err)
	}
	if got := len(store.List(domain.EntityRetailer)); got != 0 {
		t.Fatalf("expected failed commit to leave no retailer, got %d", got)
	}

	conn.failCommit = false
	if _, err := store.RunInTransaction(ctx, func(domain.Transaction) error { return nil }); err != nil {
		t.Fatalf("empty run: %v", err)
	}
	if strings.Contains(string(conn.buckets["retailers"]), `"Shop"`) {
		t.Fatalf("rejected retailer leaked into a later snapshot: %s", conn.buckets["retailers"])
	}
}

func TestRunInTransactionSkipsPersistOnError(t *testing.T) {
	ctx := context.Background()
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	store, err := NewStore(ctx, "dsn", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	boom := errors.New("boom")
	if _, err := store.RunInTransaction(ctx, func(domain.Transaction) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(conn.buckets) != 0 {
		t.Fatalf("expected nothing persisted, got %d buckets", len(conn.buckets))
	}
}

// --- stub driver helpers ---

type stubDriver struct {
	conn *stubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

type stubConn struct {
	mu         sync.Mutex
	execs      []string
	buckets    map[string][]byte
	pending    map[string][]byte
	failExec   bool
	failCommit bool
}

func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{buckets: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

func (c *stubConn) sawExec(prefix string) bool {
	for _, q := range c.execs {
		if strings.HasPrefix(strings.TrimSpace(q), prefix) {
			return true
		}
	}
	return false
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *stubConn) Ping(_ context.Context) error {
	if c.failExec {
		return fmt.Errorf("ping fail")
	}
	return nil
}

func (c *stubConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = make(map[string][]byte)
	return &stubTx{conn: c}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, query)
	if c.failExec {
		return nil, fmt.Errorf("exec fail")
	}
	if strings.HasPrefix(strings.TrimSpace(query), "INSERT INTO state") {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 args, got %d", len(args))
		}
		bucket, _ := args[0].Value.(string)
		payload, _ := args[1].Value.([]byte)
		c.pending[bucket] = append([]byte(nil), payload...)
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.buckets))
	for name := range c.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]driver.Value, 0, len(names))
	for _, name := range names {
		rows = append(rows, []driver.Value{name, c.buckets[name]})
	}
	return &stubRows{cols: []string{"bucket", "payload"}, rows: rows}, nil
}

type stubTx struct {
	conn *stubConn
}

func (t *stubTx) Commit() error {
	t.conn.mu.Lock()
	defer t.conn.mu.Unlock()
	if t.conn.failCommit {
		return fmt.Errorf("commit fail")
	}
	for k, v := range t.conn.pending {
		t.conn.buckets[k] = v
	}
	t.conn.pending = nil
	return nil
}

func (t *stubTx) Rollback() error {
	t.conn.mu.Lock()
	defer t.conn.mu.Unlock()
	t.conn.pending = nil
	return nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
