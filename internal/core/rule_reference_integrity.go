package core

import (
	"context"
	"fmt"

	"holma/pkg/domain"
)

// NewReferenceIntegrityRule blocks commits that leave a scalar foreign
// reference pointing at a missing entity.
func NewReferenceIntegrityRule() domain.Rule {
	return referenceIntegrityRule{}
}

type referenceIntegrityRule struct{}

func (referenceIntegrityRule) Name() string { return "reference_integrity" }

func (r referenceIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	check := func(entity domain.EntityType, id int64, field string, target domain.EntityType, ref int64) {
		if _, ok := view.Get(target, ref); ok {
			return
		}
		res.Violations = append(res.Violations, blocking(r.Name(), domain.ViolationReferenceNotFound, entity, id,
			fmt.Sprintf("%s %d: %s references missing %s %d", entity, id, field, target, ref)))
	}
	for _, g := range listOf[domain.Group](view, domain.EntityGroup) {
		check(domain.EntityGroup, g.ID, "owner", domain.EntityPerson, g.OwnerID)
	}
	for _, l := range listOf[domain.ShoppingList](view, domain.EntityShoppingList) {
		check(domain.EntityShoppingList, l.ID, "group", domain.EntityGroup, l.GroupID)
	}
	for _, a := range listOf[domain.Article](view, domain.EntityArticle) {
		check(domain.EntityArticle, a.ID, "group", domain.EntityGroup, a.GroupID)
	}
	for _, e := range listOf[domain.ListEntry](view, domain.EntityListEntry) {
		check(domain.EntityListEntry, e.ID, "list", domain.EntityShoppingList, e.ListID)
		check(domain.EntityListEntry, e.ID, "article", domain.EntityArticle, e.ArticleID)
		check(domain.EntityListEntry, e.ID, "purchasing person", domain.EntityPerson, e.PurchasingPersonID)
		if e.HasRetailer() {
			check(domain.EntityListEntry, e.ID, "retailer", domain.EntityRetailer, *e.RetailerID)
		}
	}
	return res, nil
}
