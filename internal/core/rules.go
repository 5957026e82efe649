package core

import (
	"holma/pkg/domain"
)

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewReferenceIntegrityRule())
	engine.Register(NewOwnerMembershipRule())
	engine.Register(NewArticleGroupRule())
	engine.Register(NewStandardArticleSubsetRule())
	engine.Register(NewListEntryUnitRule())
	engine.Register(NewNameRequiredRule())
	engine.Register(NewPersonEmailRule())
	engine.Register(NewPurchaserMembershipRule())
	return engine
}

func blocking(rule string, kind domain.ViolationKind, entity domain.EntityType, id int64, msg string) domain.Violation {
	return domain.Violation{
		Rule:     rule,
		Kind:     kind,
		Severity: domain.SeverityBlock,
		Message:  msg,
		Entity:   entity,
		EntityID: id,
	}
}

// changed returns the post-change state of entities of kind created or
// updated in the transaction, once per id, in change order.
func changed[T domain.Entity](changes []domain.Change, kind domain.EntityType) []T {
	seen := make(map[int64]int)
	var out []T
	for _, c := range changes {
		if c.Entity != kind || c.After == nil {
			continue
		}
		v, ok := c.After.(T)
		if !ok {
			continue
		}
		if i, dup := seen[v.EntityID()]; dup {
			out[i] = v
			continue
		}
		seen[v.EntityID()] = len(out)
		out = append(out, v)
	}
	return out
}
