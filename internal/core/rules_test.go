package core

import (
	"context"
	"errors"
	"testing"

	"holma/internal/infra/persistence/memory"
	"holma/pkg/domain"
)

func TestDefaultRulesEngineRegistersPolicySet(t *testing.T) {
	got := NewDefaultRulesEngine().Rules()
	want := []string{
		"reference_integrity",
		"owner_membership",
		"article_group",
		"standard_article_subset",
		"unit_valid",
		"name_required",
		"person_email",
		"purchaser_membership",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rule %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if len(NewRulesEngine().Rules()) != 0 {
		t.Fatalf("expected empty engine")
	}
}

func TestRulesBlockRawTransactions(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		rule string
		want error
		fn   func(tx domain.Transaction, ids map[string]int64) error
	}{
		{
			name: "dangling owner",
			rule: "reference_integrity",
			want: domain.ErrReferenceNotFound,
			fn: func(tx domain.Transaction, ids map[string]int64) error {
				g, _ := tx.Get(domain.EntityGroup, ids["group"])
				group := g.(domain.Group)
				group.OwnerID = 500
				return tx.Put(group)
			},
		},
		{
			name: "owner left",
			rule: "owner_membership",
			want: domain.ErrInvariantViolation,
			fn: func(tx domain.Transaction, ids map[string]int64) error {
				tx.UnlinkAll(domain.RelationPersonMemberOfGroup, domain.EntityGroup, ids["group"])
				return nil
			},
		},
		{
			name: "standard article of nobody",
			rule: "standard_article_subset",
			want: domain.ErrInvariantViolation,
			fn: func(tx domain.Transaction, ids map[string]int64) error {
				tx.Unlink(domain.RelationGroupHasArticle, ids["group"], ids["article"])
				return tx.Link(domain.RelationGroupHasStandardArticle, ids["group"], ids["article"])
			},
		},
		{
			name: "blank retailer name",
			rule: "name_required",
			want: domain.ErrInvariantViolation,
			fn: func(tx domain.Transaction, ids map[string]int64) error {
				return tx.Put(domain.Retailer{Base: domain.Base{ID: ids["retailer"], Name: " "}})
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seeded, ids := seedGraph(t)
			store := memory.NewStore(NewDefaultRulesEngine())
			store.ImportState(seeded.ExportState())
			_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
				return tc.fn(tx, ids)
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var rv domain.RuleViolationError
			if !errors.As(err, &rv) {
				t.Fatalf("expected rule violation error, got %T", err)
			}
			if v, _ := rv.Result.FirstBlocking(); v.Rule != tc.rule {
				t.Fatalf("expected rule %s, got %+v", tc.rule, rv.Result.Violations)
			}
		})
	}
}

func TestChangedKeepsLatestStatePerID(t *testing.T) {
	first := domain.ListEntry{Base: domain.Base{ID: 1}, Unit: "bad"}
	second := domain.ListEntry{Base: domain.Base{ID: 1}, Unit: domain.UnitGram}
	other := domain.ListEntry{Base: domain.Base{ID: 2}, Unit: domain.UnitLiter}
	out := changed[domain.ListEntry]([]domain.Change{
		{Entity: domain.EntityListEntry, Action: domain.ActionCreate, After: first},
		{Entity: domain.EntityPerson, Action: domain.ActionCreate, After: domain.Person{}},
		{Entity: domain.EntityListEntry, Action: domain.ActionUpdate, Before: first, After: second},
		{Entity: domain.EntityListEntry, Action: domain.ActionCreate, After: other},
		{Entity: domain.EntityListEntry, Action: domain.ActionDelete, Before: other},
	}, domain.EntityListEntry)
	if len(out) != 2 || out[0].Unit != domain.UnitGram || out[1].ID != 2 {
		t.Fatalf("unexpected changed entries %+v", out)
	}
}
