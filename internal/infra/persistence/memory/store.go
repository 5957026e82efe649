// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments. It holds the entity store
// and the relationship index behind a single copy-on-write transaction.
package memory

import (
	"context"
	"sync"
	"time"

	"holma/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	seq    map[domain.EntityType]int64
	engine *domain.RulesEngine
	nowFn  func() time.Time
	commit CommitHook
}

// CommitHook receives the candidate state of a transaction that passed every
// rule. It runs under the write lock before the state goes live; a non-nil
// error aborts the commit and leaves the store unchanged.
type CommitHook func(ctx context.Context, candidate Snapshot) error

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *domain.RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		seq:    make(map[domain.EntityType]int64),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state, s.seq)
}

// ImportState replaces the store state with the provided snapshot. Links
// whose endpoints are missing are dropped.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
	s.seq = sequencesFromSnapshot(snapshot, s.state)
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *domain.RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc swaps the time provider; nil restores the wall clock.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		fn = func() time.Time { return time.Now().UTC() }
	}
	s.nowFn = fn
}

// SetCommitHook installs the hook durable stores use to persist each commit.
func (s *Store) SetCommitHook(hook CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit = hook
}

// Close releases resources held by the store.
func (s *Store) Close() error { return nil }

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy replaces the live state only when fn succeeds and no rule blocks.
// Identifiers allocated by an aborted transaction are not reissued, including
// when the commit hook rejects the candidate state.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, tx, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	if s.commit != nil {
		if err := s.commit(context.WithoutCancel(ctx), snapshotFromMemoryState(tx.state, s.seq)); err != nil {
			return result, err
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(ctx context.Context, fn func(domain.TransactionView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(transactionView{state: &s.state})
}

// Get returns a decorated copy of the entity outside any transaction.
func (s *Store) Get(kind domain.EntityType, id int64) (domain.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.get(kind, id)
}

// List returns decorated copies of every entity of kind ordered by id.
func (s *Store) List(kind domain.EntityType) []domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.list(kind)
}

func (s *Store) allocate(kind domain.EntityType) int64 {
	s.seq[kind]++
	return s.seq[kind]
}

func (s *Store) reserve(kind domain.EntityType, id int64) {
	if id > s.seq[kind] {
		s.seq[kind] = id
	}
}
