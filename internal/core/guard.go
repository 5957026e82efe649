package core

import (
	"fmt"

	"holma/pkg/domain"
)

// Rule names reported by the integrity guard.
const (
	ruleReferenceExists  = "reference_exists"
	ruleDeleteDependents = "delete_dependents"
	ruleOwnerMembership  = "owner_membership"
	ruleRelationAnchor   = "relation_anchor"
)

// Guard validates mutations against referential integrity before they are
// applied. It holds no state; every check reads the supplied view.
type Guard struct{}

// CheckReference reports ReferenceNotFound unless id names a live entity of kind.
func (Guard) CheckReference(view domain.TransactionView, kind domain.EntityType, id int64) error {
	if id > 0 {
		if _, ok := view.Get(kind, id); ok {
			return nil
		}
	}
	return violation(ruleReferenceExists, domain.ViolationReferenceNotFound, kind, id,
		fmt.Sprintf("%s %d does not exist", kind, id))
}

// CheckDeletable reports HasDependents when the delete policy of kind blocks
// removal of id. Group, ShoppingList and ListEntry deletes cascade and never
// block. A Person blocks while owning a group or purchasing a live entry.
// Articles and Retailers block while a live entry references them unless
// detach is set.
func (Guard) CheckDeletable(view domain.TransactionView, kind domain.EntityType, id int64, detach bool) error {
	if _, ok := view.Get(kind, id); !ok {
		return domain.NotFoundError{Entity: kind, ID: id}
	}
	switch kind {
	case domain.EntityPerson:
		for _, g := range listOf[domain.Group](view, domain.EntityGroup) {
			if g.OwnerID == id {
				return violation(ruleDeleteDependents, domain.ViolationHasDependents, kind, id,
					fmt.Sprintf("person %d owns group %d", id, g.ID))
			}
		}
		for _, e := range listOf[domain.ListEntry](view, domain.EntityListEntry) {
			if e.PurchasingPersonID == id {
				return violation(ruleDeleteDependents, domain.ViolationHasDependents, kind, id,
					fmt.Sprintf("person %d is purchasing person of list entry %d", id, e.ID))
			}
		}
	case domain.EntityArticle:
		if detach {
			return nil
		}
		if refs := entriesReferencing(view, kind, id); len(refs) > 0 {
			return violation(ruleDeleteDependents, domain.ViolationHasDependents, kind, id,
				fmt.Sprintf("article %d still referenced by %d list entries", id, len(refs)))
		}
	case domain.EntityRetailer:
		if detach {
			return nil
		}
		if refs := entriesReferencing(view, kind, id); len(refs) > 0 {
			return violation(ruleDeleteDependents, domain.ViolationHasDependents, kind, id,
				fmt.Sprintf("retailer %d still referenced by %d list entries", id, len(refs)))
		}
	}
	return nil
}

// CheckOwnerIsMember reports InvariantViolation unless the owner of groupID
// belongs to its member set.
func (Guard) CheckOwnerIsMember(view domain.TransactionView, groupID int64) error {
	g, err := getAs[domain.Group](view, domain.EntityGroup, groupID)
	if err != nil {
		return err
	}
	if view.Linked(domain.RelationPersonMemberOfGroup, g.OwnerID, g.ID) {
		return nil
	}
	return violation(ruleOwnerMembership, domain.ViolationInvariant, domain.EntityGroup, g.ID,
		fmt.Sprintf("owner %d is not a member of group %d", g.OwnerID, g.ID))
}

// entriesReferencing returns the live list entries pointing at an article or
// retailer, ordered by id.
func entriesReferencing(view domain.TransactionView, kind domain.EntityType, id int64) []domain.ListEntry {
	var out []domain.ListEntry
	for _, e := range listOf[domain.ListEntry](view, domain.EntityListEntry) {
		switch {
		case kind == domain.EntityArticle && e.ArticleID == id:
			out = append(out, e)
		case kind == domain.EntityRetailer && e.HasRetailer() && *e.RetailerID == id:
			out = append(out, e)
		}
	}
	return out
}

func violation(rule string, kind domain.ViolationKind, entity domain.EntityType, id int64, msg string) error {
	return domain.ViolationError{Violation: domain.Violation{
		Rule:     rule,
		Kind:     kind,
		Severity: domain.SeverityBlock,
		Message:  msg,
		Entity:   entity,
		EntityID: id,
	}}
}

// getAs resolves id to a typed entity or a NotFoundError.
func getAs[T domain.Entity](view domain.TransactionView, kind domain.EntityType, id int64) (T, error) {
	var zero T
	e, ok := view.Get(kind, id)
	if !ok {
		return zero, domain.NotFoundError{Entity: kind, ID: id}
	}
	v, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("%s %d: unexpected record type %T", kind, id, e)
	}
	return v, nil
}

// listOf returns every entity of kind as T, never nil.
func listOf[T domain.Entity](view domain.TransactionView, kind domain.EntityType) []T {
	return castAll[T](view.List(kind))
}

// resolve maps ids to typed entities, skipping ids that no longer resolve.
func resolve[T domain.Entity](view domain.TransactionView, kind domain.EntityType, ids []int64) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, err := getAs[T](view, kind, id); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func castAll[T domain.Entity](entities []domain.Entity) []T {
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
