package core

import (
	"context"
	"fmt"
	"strings"

	"holma/pkg/domain"
)

// NewPersonEmailRule rejects person emails without an @ sign. An empty email
// is allowed.
func NewPersonEmailRule() domain.Rule {
	return personEmailRule{}
}

type personEmailRule struct{}

func (personEmailRule) Name() string { return "person_email" }

func (r personEmailRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, p := range changed[domain.Person](changes, domain.EntityPerson) {
		if p.Email == "" || strings.Contains(p.Email, "@") {
			continue
		}
		res.Violations = append(res.Violations, blocking(r.Name(), domain.ViolationInvariant, domain.EntityPerson, p.ID,
			fmt.Sprintf("email %q is not an address", p.Email)))
	}
	return res, nil
}
