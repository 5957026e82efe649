package memory

import "holma/pkg/domain"

// Snapshot captures a point-in-time clone of the store state, including the
// relationship index and the identifier sequences.
type Snapshot struct {
	Persons       map[int64]domain.Person       `json:"persons"`
	Groups        map[int64]domain.Group        `json:"groups"`
	ShoppingLists map[int64]domain.ShoppingList `json:"shopping_lists"`
	ListEntries   map[int64]domain.ListEntry    `json:"list_entries"`
	Articles      map[int64]domain.Article      `json:"articles"`
	Retailers     map[int64]domain.Retailer     `json:"retailers"`

	Relations map[domain.RelationKind][]domain.Link `json:"relations"`
	Sequences map[domain.EntityType]int64           `json:"sequences"`
}

func snapshotFromMemoryState(state memoryState, seq map[domain.EntityType]int64) Snapshot {
	s := Snapshot{
		Persons:       make(map[int64]domain.Person),
		Groups:        make(map[int64]domain.Group),
		ShoppingLists: make(map[int64]domain.ShoppingList),
		ListEntries:   make(map[int64]domain.ListEntry),
		Articles:      make(map[int64]domain.Article),
		Retailers:     make(map[int64]domain.Retailer),
		Relations:     make(map[domain.RelationKind][]domain.Link, len(state.relations)),
		Sequences:     make(map[domain.EntityType]int64, len(seq)),
	}
	for _, bucket := range state.entities {
		for id, e := range bucket {
			switch v := cloneEntity(e).(type) {
			case domain.Person:
				s.Persons[id] = v
			case domain.Group:
				s.Groups[id] = v
			case domain.ShoppingList:
				s.ShoppingLists[id] = v
			case domain.ListEntry:
				s.ListEntries[id] = v
			case domain.Article:
				s.Articles[id] = v
			case domain.Retailer:
				s.Retailers[id] = v
			}
		}
	}
	for rel, set := range state.relations {
		s.Relations[rel] = set.links()
	}
	for kind, n := range seq {
		s.Sequences[kind] = n
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	put := func(e domain.Entity) {
		state.entities[e.EntityType()][e.EntityID()] = strip(e)
	}
	for id, v := range s.Persons {
		v.ID = id
		put(v)
	}
	for id, v := range s.Groups {
		v.ID = id
		put(v)
	}
	for id, v := range s.ShoppingLists {
		v.ID = id
		put(v)
	}
	for id, v := range s.ListEntries {
		v.ID = id
		put(v)
	}
	for id, v := range s.Articles {
		v.ID = id
		put(v)
	}
	for id, v := range s.Retailers {
		v.ID = id
		put(v)
	}
	for _, rel := range domain.RelationKinds() {
		from, to, _ := rel.Endpoints()
		links := make([]domain.Link, 0, len(s.Relations[rel]))
		for _, l := range s.Relations[rel] {
			if _, ok := state.entities[from][l.From]; !ok {
				continue
			}
			if _, ok := state.entities[to][l.To]; !ok {
				continue
			}
			links = append(links, l)
		}
		state.relations[rel] = relationSetFromLinks(links)
	}
	return state
}

// sequencesFromSnapshot returns counters that are at least the highest
// identifier present for each kind, so ids are never reissued after import.
func sequencesFromSnapshot(s Snapshot, state memoryState) map[domain.EntityType]int64 {
	seq := make(map[domain.EntityType]int64, len(domain.EntityTypes()))
	for _, kind := range domain.EntityTypes() {
		n := s.Sequences[kind]
		for id := range state.entities[kind] {
			if id > n {
				n = id
			}
		}
		seq[kind] = n
	}
	return seq
}

// Bucket pairs a persisted bucket name with a pointer into a Snapshot field.
type Bucket struct {
	Name   string
	Target any
}

// Buckets exposes the snapshot fields under the bucket names used by the
// durable backends. Targets point into s, so decoding into them fills s.
func (s *Snapshot) Buckets() []Bucket {
	return []Bucket{
		{Name: "persons", Target: &s.Persons},
		{Name: "groups", Target: &s.Groups},
		{Name: "shopping_lists", Target: &s.ShoppingLists},
		{Name: "list_entries", Target: &s.ListEntries},
		{Name: "articles", Target: &s.Articles},
		{Name: "retailers", Target: &s.Retailers},
		{Name: "relations", Target: &s.Relations},
		{Name: "sequences", Target: &s.Sequences},
	}
}
