package memory

import (
	"sort"

	"holma/pkg/domain"
)

type memoryState struct {
	entities  map[domain.EntityType]map[int64]domain.Entity
	relations map[domain.RelationKind]*relationSet
}

func newMemoryState() memoryState {
	state := memoryState{
		entities:  make(map[domain.EntityType]map[int64]domain.Entity, len(domain.EntityTypes())),
		relations: make(map[domain.RelationKind]*relationSet, len(domain.RelationKinds())),
	}
	for _, kind := range domain.EntityTypes() {
		state.entities[kind] = make(map[int64]domain.Entity)
	}
	for _, rel := range domain.RelationKinds() {
		state.relations[rel] = newRelationSet()
	}
	return state
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		entities:  make(map[domain.EntityType]map[int64]domain.Entity, len(s.entities)),
		relations: make(map[domain.RelationKind]*relationSet, len(s.relations)),
	}
	for kind, bucket := range s.entities {
		copied := make(map[int64]domain.Entity, len(bucket))
		for id, e := range bucket {
			copied[id] = cloneEntity(e)
		}
		out.entities[kind] = copied
	}
	for rel, set := range s.relations {
		out.relations[rel] = set.clone()
	}
	return out
}

func (s *memoryState) get(kind domain.EntityType, id int64) (domain.Entity, bool) {
	e, ok := s.entities[kind][id]
	if !ok {
		return nil, false
	}
	return s.decorate(e), true
}

func (s *memoryState) list(kind domain.EntityType) []domain.Entity {
	bucket := s.entities[kind]
	ids := make([]int64, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]domain.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.decorate(bucket[id]))
	}
	return out
}

func (s *memoryState) findByName(kind domain.EntityType, name string) []domain.Entity {
	out := make([]domain.Entity, 0)
	for _, e := range s.list(kind) {
		if e.EntityName() == name {
			out = append(out, e)
		}
	}
	return out
}

func (s *memoryState) relation(rel domain.RelationKind) *relationSet {
	set, ok := s.relations[rel]
	if !ok {
		// Unknown kinds read as empty; the set is detached so nothing sticks.
		return newRelationSet()
	}
	return set
}

// dropLinks removes every association in which the entity takes part.
func (s *memoryState) dropLinks(kind domain.EntityType, id int64) {
	for _, rel := range domain.RelationKinds() {
		from, to, _ := rel.Endpoints()
		if from == kind {
			s.relations[rel].unlinkFrom(id)
		}
		if to == kind {
			s.relations[rel].unlinkTo(id)
		}
	}
}

// decorate returns a copy of e with its derived id slices filled from the
// relationship index.
func (s *memoryState) decorate(e domain.Entity) domain.Entity {
	switch v := e.(type) {
	case domain.Person:
		v.GroupIDs = s.relations[domain.RelationPersonMemberOfGroup].related(v.ID)
		return v
	case domain.Group:
		v.MemberIDs = s.relations[domain.RelationPersonMemberOfGroup].referrers(v.ID)
		v.ArticleIDs = s.relations[domain.RelationGroupHasArticle].related(v.ID)
		v.ShoppingListIDs = s.relations[domain.RelationGroupHasShoppingList].related(v.ID)
		v.StandardArticleIDs = s.relations[domain.RelationGroupHasStandardArticle].related(v.ID)
		return v
	case domain.ShoppingList:
		v.ListEntryIDs = s.relations[domain.RelationShoppingListHasListEntry].related(v.ID)
		return v
	default:
		return cloneEntity(e)
	}
}

// strip clears derived fields and detaches shared pointers before storage.
func strip(e domain.Entity) domain.Entity {
	switch v := e.(type) {
	case domain.Person:
		v.GroupIDs = nil
		return v
	case *domain.Person:
		return strip(*v)
	case domain.Group:
		v.MemberIDs, v.ArticleIDs, v.ShoppingListIDs, v.StandardArticleIDs = nil, nil, nil, nil
		return v
	case *domain.Group:
		return strip(*v)
	case domain.ShoppingList:
		v.ListEntryIDs = nil
		return v
	case *domain.ShoppingList:
		return strip(*v)
	case *domain.ListEntry:
		return cloneEntity(*v)
	case *domain.Article:
		return *v
	case *domain.Retailer:
		return *v
	default:
		return cloneEntity(e)
	}
}

func cloneEntity(e domain.Entity) domain.Entity {
	switch v := e.(type) {
	case domain.Person:
		v.GroupIDs = cloneIDs(v.GroupIDs)
		return v
	case domain.Group:
		v.MemberIDs = cloneIDs(v.MemberIDs)
		v.ArticleIDs = cloneIDs(v.ArticleIDs)
		v.ShoppingListIDs = cloneIDs(v.ShoppingListIDs)
		v.StandardArticleIDs = cloneIDs(v.StandardArticleIDs)
		return v
	case domain.ShoppingList:
		v.ListEntryIDs = cloneIDs(v.ListEntryIDs)
		return v
	case domain.ListEntry:
		if v.RetailerID != nil {
			id := *v.RetailerID
			v.RetailerID = &id
		}
		return v
	default:
		return e
	}
}

func cloneIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	return append([]int64(nil), ids...)
}
