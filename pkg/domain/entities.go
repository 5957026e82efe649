// Package domain defines the shopping-group entities, relation kinds, error
// taxonomy, and rule evaluation primitives used by holma.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the type of record stored in the administration core.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityPerson identifies a person record.
	EntityPerson EntityType = "person"
	// EntityGroup identifies a shopping group record.
	EntityGroup EntityType = "group"
	// EntityShoppingList identifies a shopping list owned by a group.
	EntityShoppingList EntityType = "shopping_list"
	// EntityListEntry identifies a single line of a shopping list.
	EntityListEntry EntityType = "list_entry"
	// EntityArticle identifies an article known to a group.
	EntityArticle EntityType = "article"
	// EntityRetailer identifies a retailer record.
	EntityRetailer EntityType = "retailer"
)

// EntityTypes lists every supported kind in dependency order (leaves last).
func EntityTypes() []EntityType {
	return []EntityType{
		EntityPerson,
		EntityGroup,
		EntityShoppingList,
		EntityListEntry,
		EntityArticle,
		EntityRetailer,
	}
}

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Unit is the categorical measure of a list entry amount.
type Unit string

// Supported list entry units.
const (
	UnitPiece      Unit = "piece"
	UnitGram       Unit = "gram"
	UnitKilogram   Unit = "kilogram"
	UnitMilliliter Unit = "milliliter"
	UnitLiter      Unit = "liter"
	UnitPackage    Unit = "package"
)

// Units returns the supported units in display order.
func Units() []Unit {
	return []Unit{UnitPiece, UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitPackage}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	for _, known := range Units() {
		if u == known {
			return true
		}
	}
	return false
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn is reported to the caller but allows commit.
	SeverityWarn Severity = "warn"
)

// Base contains common fields for all domain records.
type Base struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CreationDate time.Time `json:"creation_date"`
}

// EntityID returns the record identifier.
func (b Base) EntityID() int64 { return b.ID }

// EntityName returns the human-readable label.
func (b Base) EntityName() string { return b.Name }

// Entity is implemented by every record held in the entity store.
type Entity interface {
	EntityType() EntityType
	EntityID() int64
	EntityName() string
}

// Person is a user that can own or join shopping groups.
type Person struct {
	Base
	Email string `json:"email"`
	// GroupIDs is derived from membership links and never persisted.
	GroupIDs []int64 `json:"group_ids,omitempty"`
}

// EntityType implements Entity.
func (Person) EntityType() EntityType { return EntityPerson }

// Group is a shopping community with one owner and any number of members.
type Group struct {
	Base
	OwnerID int64 `json:"owner_id"`
	// Derived from the relationship index; ignored on create and update.
	MemberIDs          []int64 `json:"member_ids,omitempty"`
	ArticleIDs         []int64 `json:"article_ids,omitempty"`
	ShoppingListIDs    []int64 `json:"shopping_list_ids,omitempty"`
	StandardArticleIDs []int64 `json:"standard_article_ids,omitempty"`
}

// EntityType implements Entity.
func (Group) EntityType() EntityType { return EntityGroup }

// ShoppingList belongs to exactly one group.
type ShoppingList struct {
	Base
	GroupID int64 `json:"group_id"`
	// ListEntryIDs is derived from the relationship index.
	ListEntryIDs []int64 `json:"list_entry_ids,omitempty"`
}

// EntityType implements Entity.
func (ShoppingList) EntityType() EntityType { return EntityShoppingList }

// ListEntry is one line on a shopping list.
type ListEntry struct {
	Base
	ListID             int64   `json:"list_id"`
	ArticleID          int64   `json:"article_id"`
	RetailerID         *int64  `json:"retailer_id"`
	PurchasingPersonID int64   `json:"purchasing_person_id"`
	Amount             float64 `json:"amount"`
	Unit               Unit    `json:"unit"`
	Checked            bool    `json:"checked"`
	IsStandardArticle  bool    `json:"is_standard_article"`
}

// EntityType implements Entity.
func (ListEntry) EntityType() EntityType { return EntityListEntry }

// HasRetailer reports whether the entry references a retailer.
func (e ListEntry) HasRetailer() bool { return e.RetailerID != nil && *e.RetailerID != 0 }

// Article is a purchasable item known to a single group.
type Article struct {
	Base
	GroupID int64 `json:"group_id"`
}

// EntityType implements Entity.
func (Article) EntityType() EntityType { return EntityArticle }

// Retailer is a shop where list entries can be bought.
type Retailer struct {
	Base
}

// EntityType implements Entity.
func (Retailer) EntityType() EntityType { return EntityRetailer }

// NormalizeName trims surrounding whitespace from a display name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before Entity
	After  Entity
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured per transaction.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	// ActionDelete indicates an entity was removed.
	ActionDelete Action = "delete"
)

// Violation reports a failed integrity check or rule evaluation.
type Violation struct {
	Rule     string
	Kind     ViolationKind
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID int64
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	_, ok := r.FirstBlocking()
	return ok
}

// FirstBlocking returns the first violation with SeverityBlock.
func (r Result) FirstBlocking() (Violation, bool) {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return v, true
		}
	}
	return Violation{}, false
}

// Warnings returns the non-blocking violations.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityWarn {
			out = append(out, v)
		}
	}
	return out
}
