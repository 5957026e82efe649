package core

import (
	"context"

	"holma/pkg/domain"
)

// NewNameRequiredRule requires a non-blank name on every created or updated
// entity except list entries, which borrow their article's name.
func NewNameRequiredRule() domain.Rule {
	return nameRequiredRule{}
}

type nameRequiredRule struct{}

func (nameRequiredRule) Name() string { return "name_required" }

func (r nameRequiredRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, c := range changes {
		if c.After == nil || c.Entity == domain.EntityListEntry {
			continue
		}
		if domain.NormalizeName(c.After.EntityName()) == "" {
			res.Violations = append(res.Violations, blocking(r.Name(), domain.ViolationInvariant, c.Entity, c.After.EntityID(),
				string(c.Entity)+" name must not be empty"))
		}
	}
	return res, nil
}
