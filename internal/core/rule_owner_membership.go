package core

import (
	"context"

	"holma/pkg/domain"
)

// NewOwnerMembershipRule blocks commits where a group owner is not a member.
func NewOwnerMembershipRule() domain.Rule {
	return ownerMembershipRule{}
}

type ownerMembershipRule struct{}

func (ownerMembershipRule) Name() string { return ruleOwnerMembership }

func (ownerMembershipRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	var guard Guard
	for _, g := range listOf[domain.Group](view, domain.EntityGroup) {
		if err := guard.CheckOwnerIsMember(view, g.ID); err != nil {
			v, ok := domain.ViolationOf(err)
			if !ok {
				return domain.Result{}, err
			}
			res.Violations = append(res.Violations, v)
		}
	}
	return res, nil
}
