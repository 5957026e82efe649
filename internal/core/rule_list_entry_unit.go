package core

import (
	"context"
	"fmt"

	"holma/pkg/domain"
)

// NewListEntryUnitRule rejects unknown units and negative amounts.
func NewListEntryUnitRule() domain.Rule {
	return listEntryUnitRule{}
}

type listEntryUnitRule struct{}

func (listEntryUnitRule) Name() string { return "unit_valid" }

func (r listEntryUnitRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, e := range changed[domain.ListEntry](changes, domain.EntityListEntry) {
		if !e.Unit.Valid() {
			res.Violations = append(res.Violations, blocking(r.Name(), domain.ViolationInvariant, domain.EntityListEntry, e.ID,
				fmt.Sprintf("unknown unit %q", e.Unit)))
		}
		if e.Amount < 0 {
			res.Violations = append(res.Violations, blocking(r.Name(), domain.ViolationInvariant, domain.EntityListEntry, e.ID,
				fmt.Sprintf("amount %g must not be negative", e.Amount)))
		}
	}
	return res, nil
}
