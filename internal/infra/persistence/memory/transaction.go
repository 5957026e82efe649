package memory

import (
	"fmt"
	"time"

	"holma/pkg/domain"
)

// transactionView exposes a read-only view of the state to callers and rules.
type transactionView struct {
	state *memoryState
}

func (v transactionView) Get(kind domain.EntityType, id int64) (domain.Entity, bool) {
	return v.state.get(kind, id)
}

func (v transactionView) List(kind domain.EntityType) []domain.Entity {
	return v.state.list(kind)
}

func (v transactionView) FindByName(kind domain.EntityType, name string) []domain.Entity {
	return v.state.findByName(kind, name)
}

func (v transactionView) Related(rel domain.RelationKind, from int64) []int64 {
	return v.state.relation(rel).related(from)
}

func (v transactionView) Referrers(rel domain.RelationKind, to int64) []int64 {
	return v.state.relation(rel).referrers(to)
}

func (v transactionView) Linked(rel domain.RelationKind, from, to int64) bool {
	return v.state.relation(rel).has(from, to)
}

// transaction represents a mutation set applied to a private copy of the state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []domain.Change
	now     time.Time
}

func (tx *transaction) view() transactionView { return transactionView{state: &tx.state} }

func (tx *transaction) recordChange(change domain.Change) {
	tx.changes = append(tx.changes, change)
}

func (tx *transaction) Get(kind domain.EntityType, id int64) (domain.Entity, bool) {
	return tx.view().Get(kind, id)
}

func (tx *transaction) List(kind domain.EntityType) []domain.Entity {
	return tx.view().List(kind)
}

func (tx *transaction) FindByName(kind domain.EntityType, name string) []domain.Entity {
	return tx.view().FindByName(kind, name)
}

func (tx *transaction) Related(rel domain.RelationKind, from int64) []int64 {
	return tx.view().Related(rel, from)
}

func (tx *transaction) Referrers(rel domain.RelationKind, to int64) []int64 {
	return tx.view().Referrers(rel, to)
}

func (tx *transaction) Linked(rel domain.RelationKind, from, to int64) bool {
	return tx.view().Linked(rel, from, to)
}

func (tx *transaction) Now() time.Time { return tx.now }

func (tx *transaction) Allocate(kind domain.EntityType) int64 {
	return tx.store.allocate(kind)
}

func (tx *transaction) Insert(entity domain.Entity) error {
	kind := entity.EntityType()
	bucket, ok := tx.state.entities[kind]
	if !ok {
		return fmt.Errorf("unknown entity type %q", kind)
	}
	id := entity.EntityID()
	if id <= 0 {
		return fmt.Errorf("%s requires an allocated id", kind)
	}
	if _, exists := bucket[id]; exists {
		return fmt.Errorf("%s %d already exists", kind, id)
	}
	tx.store.reserve(kind, id)
	bucket[id] = strip(entity)
	after, _ := tx.state.get(kind, id)
	tx.recordChange(domain.Change{Entity: kind, Action: domain.ActionCreate, After: after})
	return nil
}

func (tx *transaction) Put(entity domain.Entity) error {
	kind := entity.EntityType()
	id := entity.EntityID()
	before, ok := tx.state.get(kind, id)
	if !ok {
		return domain.NotFoundError{Entity: kind, ID: id}
	}
	tx.state.entities[kind][id] = strip(entity)
	after, _ := tx.state.get(kind, id)
	tx.recordChange(domain.Change{Entity: kind, Action: domain.ActionUpdate, Before: before, After: after})
	return nil
}

func (tx *transaction) Remove(kind domain.EntityType, id int64) error {
	before, ok := tx.state.get(kind, id)
	if !ok {
		return domain.NotFoundError{Entity: kind, ID: id}
	}
	tx.state.dropLinks(kind, id)
	delete(tx.state.entities[kind], id)
	tx.recordChange(domain.Change{Entity: kind, Action: domain.ActionDelete, Before: before})
	return nil
}

func (tx *transaction) Link(rel domain.RelationKind, from, to int64) error {
	fromKind, toKind, ok := rel.Endpoints()
	if !ok {
		return fmt.Errorf("unknown relation kind %q", rel)
	}
	if _, exists := tx.state.entities[fromKind][from]; !exists {
		return domain.NotFoundError{Entity: fromKind, ID: from}
	}
	if _, exists := tx.state.entities[toKind][to]; !exists {
		return domain.NotFoundError{Entity: toKind, ID: to}
	}
	set := tx.state.relation(rel)
	if set.has(from, to) {
		return nil
	}
	before, _ := tx.state.get(fromKind, from)
	set.link(from, to)
	tx.recordRelationChange(fromKind, from, before)
	return nil
}

func (tx *transaction) Unlink(rel domain.RelationKind, from, to int64) {
	set := tx.state.relation(rel)
	if !set.has(from, to) {
		return
	}
	fromKind, _, _ := rel.Endpoints()
	before, _ := tx.state.get(fromKind, from)
	set.unlink(from, to)
	tx.recordRelationChange(fromKind, from, before)
}

func (tx *transaction) UnlinkAll(rel domain.RelationKind, kind domain.EntityType, id int64) {
	set := tx.state.relation(rel)
	fromKind, toKind, _ := rel.Endpoints()
	if kind == fromKind {
		for _, to := range set.related(id) {
			tx.Unlink(rel, id, to)
		}
	}
	if kind == toKind {
		for _, from := range set.referrers(id) {
			tx.Unlink(rel, from, id)
		}
	}
}

// recordRelationChange reports a relationship edit as an update of the
// entity on the from side so rules see the affected owner.
func (tx *transaction) recordRelationChange(kind domain.EntityType, id int64, before domain.Entity) {
	after, ok := tx.state.get(kind, id)
	if !ok {
		return
	}
	tx.recordChange(domain.Change{Entity: kind, Action: domain.ActionUpdate, Before: before, After: after})
}
