package core

import "holma/pkg/domain"

// Domain types re-exported so adapters depend on core alone.
type (
	EntityType         = domain.EntityType
	RelationKind       = domain.RelationKind
	Unit               = domain.Unit
	Severity           = domain.Severity
	Base               = domain.Base
	Entity             = domain.Entity
	Person             = domain.Person
	Group              = domain.Group
	ShoppingList       = domain.ShoppingList
	ListEntry          = domain.ListEntry
	Article            = domain.Article
	Retailer           = domain.Retailer
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	ViolationKind      = domain.ViolationKind
	Result             = domain.Result
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	NotFoundError      = domain.NotFoundError
	ViolationError     = domain.ViolationError
	RuleViolationError = domain.RuleViolationError
)

// Entity kinds.
const (
	EntityPerson       = domain.EntityPerson
	EntityGroup        = domain.EntityGroup
	EntityShoppingList = domain.EntityShoppingList
	EntityListEntry    = domain.EntityListEntry
	EntityArticle      = domain.EntityArticle
	EntityRetailer     = domain.EntityRetailer
)

// Relation kinds held by the relationship index.
const (
	RelationPersonMemberOfGroup      = domain.RelationPersonMemberOfGroup
	RelationGroupHasArticle          = domain.RelationGroupHasArticle
	RelationGroupHasShoppingList     = domain.RelationGroupHasShoppingList
	RelationGroupHasStandardArticle  = domain.RelationGroupHasStandardArticle
	RelationShoppingListHasListEntry = domain.RelationShoppingListHasListEntry
)

// Rule severities.
const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
)

// Change actions recorded per transaction.
const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
