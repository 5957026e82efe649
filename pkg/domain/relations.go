package domain

// RelationKind names an association tracked by the relationship index.
type RelationKind string

// Relation kinds maintained by the index. Group ownership is a scalar on Group.
const (
	RelationPersonMemberOfGroup      RelationKind = "person_member_of_group"
	RelationGroupHasArticle          RelationKind = "group_has_article"
	RelationGroupHasShoppingList     RelationKind = "group_has_shoppinglist"
	RelationGroupHasStandardArticle  RelationKind = "group_has_standardarticle"
	RelationShoppingListHasListEntry RelationKind = "shoppinglist_has_listentry"
)

var relationEndpoints = map[RelationKind][2]EntityType{
	RelationPersonMemberOfGroup:      {EntityPerson, EntityGroup},
	RelationGroupHasArticle:          {EntityGroup, EntityArticle},
	RelationGroupHasShoppingList:     {EntityGroup, EntityShoppingList},
	RelationGroupHasStandardArticle:  {EntityGroup, EntityArticle},
	RelationShoppingListHasListEntry: {EntityShoppingList, EntityListEntry},
}

// RelationKinds lists every relation kind in a stable order.
func RelationKinds() []RelationKind {
	return []RelationKind{
		RelationPersonMemberOfGroup,
		RelationGroupHasArticle,
		RelationGroupHasShoppingList,
		RelationGroupHasStandardArticle,
		RelationShoppingListHasListEntry,
	}
}

// Endpoints returns the entity kinds on the from and to side of the relation.
func (r RelationKind) Endpoints() (from, to EntityType, ok bool) {
	ends, ok := relationEndpoints[r]
	if !ok {
		return "", "", false
	}
	return ends[0], ends[1], true
}

// Valid reports whether r is a known relation kind.
func (r RelationKind) Valid() bool {
	_, ok := relationEndpoints[r]
	return ok
}

// Link is a single directed association between two entity ids.
type Link struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}
