package domain

import (
	"context"
	"time"
)

// TransactionView provides read-only access to entity and relationship state.
type TransactionView interface {
	// Get returns the live entity of the given kind and id.
	Get(kind EntityType, id int64) (Entity, bool)
	// List returns every entity of the kind ordered by id; never nil.
	List(kind EntityType) []Entity
	// FindByName returns entities whose name matches exactly (case-sensitive).
	FindByName(kind EntityType, name string) []Entity
	// Related returns ids linked from id under rel, in insertion order.
	Related(rel RelationKind, from int64) []int64
	// Referrers returns ids that link to id under rel, in insertion order.
	Referrers(rel RelationKind, to int64) []int64
	// Linked reports whether the pair is associated under rel.
	Linked(rel RelationKind, from, to int64) bool
}

// Transaction exposes the entity store and relationship index mutations that
// a persistence implementation must support within one atomic scope.
type Transaction interface {
	TransactionView
	// Now returns the timestamp captured when the transaction began.
	Now() time.Time
	// Allocate reserves a fresh identifier for kind. Identifiers are never reissued.
	Allocate(kind EntityType) int64
	// Insert stores a new entity; its id must be allocated and unused.
	Insert(entity Entity) error
	// Put replaces an existing entity; fails with NotFoundError when absent.
	Put(entity Entity) error
	// Remove deletes an entity and every association it takes part in; fails
	// with NotFoundError when absent.
	Remove(kind EntityType, id int64) error
	// Link records an association. Linking an existing pair is a no-op; a
	// missing endpoint fails with NotFoundError.
	Link(rel RelationKind, from, to int64) error
	// Unlink removes an association. Missing pairs are ignored.
	Unlink(rel RelationKind, from, to int64)
	// UnlinkAll removes every association under rel in which the entity of
	// kind with the given id takes part.
	UnlinkAll(rel RelationKind, kind EntityType, id int64)
}

// PersistentStore is a minimal abstraction over durable backends.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	RulesEngine() *RulesEngine
	Close() error
}
