package core

import (
	"context"
	"errors"
	"testing"

	"holma/internal/infra/persistence/memory"
	"holma/pkg/domain"
)

// seedGraph stores a person owning a group with one article used by one
// entry, bypassing the service so guards can be checked in isolation.
func seedGraph(t *testing.T) (*memory.Store, map[string]int64) {
	t.Helper()
	store := memory.NewStore(nil)
	ids := make(map[string]int64)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		ids["person"] = tx.Allocate(domain.EntityPerson)
		ids["outsider"] = tx.Allocate(domain.EntityPerson)
		ids["group"] = tx.Allocate(domain.EntityGroup)
		ids["list"] = tx.Allocate(domain.EntityShoppingList)
		ids["article"] = tx.Allocate(domain.EntityArticle)
		ids["retailer"] = tx.Allocate(domain.EntityRetailer)
		ids["entry"] = tx.Allocate(domain.EntityListEntry)
		retailer := ids["retailer"]
		records := []domain.Entity{
			domain.Person{Base: domain.Base{ID: ids["person"], Name: "Owner"}},
			domain.Person{Base: domain.Base{ID: ids["outsider"], Name: "Outsider"}},
			domain.Group{Base: domain.Base{ID: ids["group"], Name: "G"}, OwnerID: ids["person"]},
			domain.ShoppingList{Base: domain.Base{ID: ids["list"], Name: "L"}, GroupID: ids["group"]},
			domain.Article{Base: domain.Base{ID: ids["article"], Name: "A"}, GroupID: ids["group"]},
			domain.Retailer{Base: domain.Base{ID: ids["retailer"], Name: "R"}},
			domain.ListEntry{Base: domain.Base{ID: ids["entry"]}, ListID: ids["list"], ArticleID: ids["article"], RetailerID: &retailer, PurchasingPersonID: ids["person"], Unit: domain.UnitPiece},
		}
		for _, r := range records {
			if err := tx.Insert(r); err != nil {
				return err
			}
		}
		links := []struct {
			rel      domain.RelationKind
			from, to int64
		}{
			{domain.RelationPersonMemberOfGroup, ids["person"], ids["group"]},
			{domain.RelationGroupHasShoppingList, ids["group"], ids["list"]},
			{domain.RelationGroupHasArticle, ids["group"], ids["article"]},
			{domain.RelationShoppingListHasListEntry, ids["list"], ids["entry"]},
		}
		for _, l := range links {
			if err := tx.Link(l.rel, l.from, l.to); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store, ids
}

func TestGuardCheckReference(t *testing.T) {
	store, ids := seedGraph(t)
	var guard Guard
	err := store.View(context.Background(), func(view domain.TransactionView) error {
		if err := guard.CheckReference(view, domain.EntityArticle, ids["article"]); err != nil {
			t.Fatalf("expected live article, got %v", err)
		}
		for _, tc := range []struct {
			kind domain.EntityType
			id   int64
		}{
			{domain.EntityArticle, 99},
			{domain.EntityRetailer, 0},
			{domain.EntityGroup, ids["article"] + 10},
		} {
			err := guard.CheckReference(view, tc.kind, tc.id)
			if !errors.Is(err, domain.ErrReferenceNotFound) {
				t.Fatalf("%s %d: expected reference not found, got %v", tc.kind, tc.id, err)
			}
			v, ok := domain.ViolationOf(err)
			if !ok || v.Entity != tc.kind || v.EntityID != tc.id || v.Rule != ruleReferenceExists {
				t.Fatalf("unexpected violation %+v", v)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestGuardCheckDeletable(t *testing.T) {
	store, ids := seedGraph(t)
	var guard Guard
	cases := []struct {
		name   string
		kind   domain.EntityType
		id     int64
		detach bool
		want   error
	}{
		{"group cascades", domain.EntityGroup, ids["group"], false, nil},
		{"list cascades", domain.EntityShoppingList, ids["list"], false, nil},
		{"entry plain", domain.EntityListEntry, ids["entry"], false, nil},
		{"owner blocks", domain.EntityPerson, ids["person"], false, domain.ErrHasDependents},
		{"owner blocks with detach", domain.EntityPerson, ids["person"], true, domain.ErrHasDependents},
		{"free person", domain.EntityPerson, ids["outsider"], false, nil},
		{"referenced article", domain.EntityArticle, ids["article"], false, domain.ErrHasDependents},
		{"article detach", domain.EntityArticle, ids["article"], true, nil},
		{"referenced retailer", domain.EntityRetailer, ids["retailer"], false, domain.ErrHasDependents},
		{"retailer detach", domain.EntityRetailer, ids["retailer"], true, nil},
		{"missing", domain.EntityRetailer, 404, false, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.View(context.Background(), func(view domain.TransactionView) error {
				return guard.CheckDeletable(view, tc.kind, tc.id, tc.detach)
			})
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected deletable, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestGuardCheckOwnerIsMember(t *testing.T) {
	store, ids := seedGraph(t)
	var guard Guard
	ctx := context.Background()
	if err := store.View(ctx, func(view domain.TransactionView) error {
		return guard.CheckOwnerIsMember(view, ids["group"])
	}); err != nil {
		t.Fatalf("expected owner membership, got %v", err)
	}
	if err := store.View(ctx, func(view domain.TransactionView) error {
		return guard.CheckOwnerIsMember(view, 77)
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected missing group, got %v", err)
	}

	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		tx.Unlink(domain.RelationPersonMemberOfGroup, ids["person"], ids["group"])
		return guard.CheckOwnerIsMember(tx, ids["group"])
	})
	if !errors.Is(err, domain.ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
	v, _ := domain.ViolationOf(err)
	if v.Entity != domain.EntityGroup || v.EntityID != ids["group"] || v.Rule != ruleOwnerMembership {
		t.Fatalf("unexpected violation %+v", v)
	}
}
