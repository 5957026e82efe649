package core

import (
	"context"
	"fmt"

	"holma/pkg/domain"
)

// NewPurchaserMembershipRule warns when a changed list entry names a
// purchasing person outside the list's group. It never blocks.
func NewPurchaserMembershipRule() domain.Rule {
	return purchaserMembershipRule{}
}

type purchaserMembershipRule struct{}

func (purchaserMembershipRule) Name() string { return "purchaser_membership" }

func (r purchaserMembershipRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, e := range changed[domain.ListEntry](changes, domain.EntityListEntry) {
		if _, ok := view.Get(domain.EntityListEntry, e.ID); !ok {
			continue
		}
		list, err := getAs[domain.ShoppingList](view, domain.EntityShoppingList, e.ListID)
		if err != nil {
			continue
		}
		if view.Linked(domain.RelationPersonMemberOfGroup, e.PurchasingPersonID, list.GroupID) {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Kind:     domain.ViolationInvariant,
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("purchasing person %d is not a member of group %d", e.PurchasingPersonID, list.GroupID),
			Entity:   domain.EntityListEntry,
			EntityID: e.ID,
		})
	}
	return res, nil
}
