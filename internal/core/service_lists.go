package core

import (
	"context"

	"holma/pkg/domain"
)

// ListShoppingLists returns every shopping list ordered by id.
func (s *Service) ListShoppingLists(ctx context.Context) ([]ShoppingList, error) {
	return listEntities[ShoppingList](ctx, s, "list_shopping_lists", EntityShoppingList)
}

// GetShoppingList returns the shopping list with id or a NotFoundError.
func (s *Service) GetShoppingList(ctx context.Context, id int64) (ShoppingList, error) {
	return getEntity[ShoppingList](ctx, s, "get_shopping_list", EntityShoppingList, id)
}

// FindShoppingListsByName returns shopping lists whose name equals name exactly.
func (s *Service) FindShoppingListsByName(ctx context.Context, name string) ([]ShoppingList, error) {
	return findEntities[ShoppingList](ctx, s, "find_shopping_lists", EntityShoppingList, name)
}

// CreateShoppingList persists a new list under an existing group.
func (s *Service) CreateShoppingList(ctx context.Context, list ShoppingList) (ShoppingList, Result, error) {
	var created ShoppingList
	res, err := s.run(ctx, "create_shopping_list", func(tx domain.Transaction) error {
		if err := s.guard.CheckReference(tx, EntityGroup, list.GroupID); err != nil {
			return err
		}
		newBase(tx, EntityShoppingList, &list.Base)
		list.ListEntryIDs = nil
		if err := tx.Insert(list); err != nil {
			return err
		}
		if err := tx.Link(RelationGroupHasShoppingList, list.GroupID, list.ID); err != nil {
			return err
		}
		var err error
		created, err = getAs[ShoppingList](tx, EntityShoppingList, list.ID)
		return err
	})
	if err != nil {
		return ShoppingList{}, res, err
	}
	return created, res, nil
}

// UpdateShoppingList mutates a shopping list. Moving it to another group
// moves the group link with it.
func (s *Service) UpdateShoppingList(ctx context.Context, id int64, mutator func(*ShoppingList) error) (ShoppingList, Result, error) {
	var updated ShoppingList
	res, err := s.run(ctx, "update_shopping_list", func(tx domain.Transaction) error {
		current, err := getAs[ShoppingList](tx, EntityShoppingList, id)
		if err != nil {
			return err
		}
		next, err := mutate(current, mutator)
		if err != nil {
			return err
		}
		keepIdentity(&next.Base, current.Base)
		next.ListEntryIDs = nil
		if next.GroupID != current.GroupID {
			if err := s.guard.CheckReference(tx, EntityGroup, next.GroupID); err != nil {
				return err
			}
			tx.Unlink(RelationGroupHasShoppingList, current.GroupID, id)
			if err := tx.Link(RelationGroupHasShoppingList, next.GroupID, id); err != nil {
				return err
			}
		}
		updated, err = putEntity(tx, next)
		return err
	})
	if err != nil {
		return ShoppingList{}, res, err
	}
	return updated, res, nil
}

// DeleteShoppingList removes a list and every entry on it.
func (s *Service) DeleteShoppingList(ctx context.Context, id int64, opts ...DeleteOption) (Result, error) {
	o := resolveDeleteOptions(opts)
	return s.run(ctx, "delete_shopping_list", func(tx domain.Transaction) error {
		if err := s.guard.CheckDeletable(tx, EntityShoppingList, id, o.detach); err != nil {
			return err
		}
		return removeShoppingList(tx, id)
	})
}

func removeShoppingList(tx domain.Transaction, id int64) error {
	for _, entryID := range tx.Related(RelationShoppingListHasListEntry, id) {
		if err := tx.Remove(EntityListEntry, entryID); err != nil {
			return err
		}
	}
	return tx.Remove(EntityShoppingList, id)
}

// ListListEntries returns every list entry ordered by id.
func (s *Service) ListListEntries(ctx context.Context) ([]ListEntry, error) {
	return listEntities[ListEntry](ctx, s, "list_list_entries", EntityListEntry)
}

// GetListEntry returns the list entry with id or a NotFoundError.
func (s *Service) GetListEntry(ctx context.Context, id int64) (ListEntry, error) {
	return getEntity[ListEntry](ctx, s, "get_list_entry", EntityListEntry, id)
}

// FindListEntriesByName returns list entries whose name equals name exactly.
func (s *Service) FindListEntriesByName(ctx context.Context, name string) ([]ListEntry, error) {
	return findEntities[ListEntry](ctx, s, "find_list_entries", EntityListEntry, name)
}

// CreateListEntry persists a new entry on a shopping list. Every reference is
// checked before anything is written. An empty unit defaults to piece and an
// empty name to the article's name.
func (s *Service) CreateListEntry(ctx context.Context, entry ListEntry) (ListEntry, Result, error) {
	var created ListEntry
	res, err := s.run(ctx, "create_list_entry", func(tx domain.Transaction) error {
		var err error
		created, err = s.createListEntry(tx, entry)
		return err
	})
	if err != nil {
		return ListEntry{}, res, err
	}
	return created, res, nil
}

func (s *Service) createListEntry(tx domain.Transaction, entry ListEntry) (ListEntry, error) {
	normalizeRetailer(&entry)
	if err := s.checkListEntryReferences(tx, entry, nil); err != nil {
		return ListEntry{}, err
	}
	if entry.Unit == "" {
		entry.Unit = domain.UnitPiece
	}
	if domain.NormalizeName(entry.Name) == "" {
		if article, err := getAs[Article](tx, EntityArticle, entry.ArticleID); err == nil {
			entry.Name = article.Name
		}
	}
	newBase(tx, EntityListEntry, &entry.Base)
	if err := tx.Insert(entry); err != nil {
		return ListEntry{}, err
	}
	if err := tx.Link(RelationShoppingListHasListEntry, entry.ListID, entry.ID); err != nil {
		return ListEntry{}, err
	}
	return getAs[ListEntry](tx, EntityListEntry, entry.ID)
}

// UpdateListEntry mutates a list entry, re-checking every changed reference.
func (s *Service) UpdateListEntry(ctx context.Context, id int64, mutator func(*ListEntry) error) (ListEntry, Result, error) {
	var updated ListEntry
	res, err := s.run(ctx, "update_list_entry", func(tx domain.Transaction) error {
		var err error
		updated, err = s.updateListEntry(tx, id, mutator)
		return err
	})
	if err != nil {
		return ListEntry{}, res, err
	}
	return updated, res, nil
}

func (s *Service) updateListEntry(tx domain.Transaction, id int64, mutator func(*ListEntry) error) (ListEntry, error) {
	current, err := getAs[ListEntry](tx, EntityListEntry, id)
	if err != nil {
		return ListEntry{}, err
	}
	next, err := mutate(current, mutator)
	if err != nil {
		return ListEntry{}, err
	}
	keepIdentity(&next.Base, current.Base)
	normalizeRetailer(&next)
	if err := s.checkListEntryReferences(tx, next, &current); err != nil {
		return ListEntry{}, err
	}
	if next.ListID != current.ListID {
		tx.Unlink(RelationShoppingListHasListEntry, current.ListID, id)
		if err := tx.Link(RelationShoppingListHasListEntry, next.ListID, id); err != nil {
			return ListEntry{}, err
		}
	}
	return putEntity(tx, next)
}

// SetListEntryChecked toggles the checked flag of an entry.
func (s *Service) SetListEntryChecked(ctx context.Context, id int64, checked bool) (ListEntry, Result, error) {
	var updated ListEntry
	res, err := s.run(ctx, "set_list_entry_checked", func(tx domain.Transaction) error {
		var err error
		updated, err = s.updateListEntry(tx, id, func(e *ListEntry) error {
			e.Checked = checked
			return nil
		})
		return err
	})
	if err != nil {
		return ListEntry{}, res, err
	}
	return updated, res, nil
}

// DeleteListEntry removes a single entry.
func (s *Service) DeleteListEntry(ctx context.Context, id int64, opts ...DeleteOption) (Result, error) {
	o := resolveDeleteOptions(opts)
	return s.run(ctx, "delete_list_entry", func(tx domain.Transaction) error {
		if err := s.guard.CheckDeletable(tx, EntityListEntry, id, o.detach); err != nil {
			return err
		}
		return tx.Remove(EntityListEntry, id)
	})
}

// AddStandardArticlesToList adds one entry per standard article of the list's
// group that is not already on the list. New entries use one piece and are
// flagged as standard articles.
func (s *Service) AddStandardArticlesToList(ctx context.Context, listID, purchasingPersonID int64) ([]ListEntry, Result, error) {
	var added []ListEntry
	res, err := s.run(ctx, "add_standard_articles_to_list", func(tx domain.Transaction) error {
		list, err := getAs[ShoppingList](tx, EntityShoppingList, listID)
		if err != nil {
			return err
		}
		present := make(map[int64]bool)
		for _, e := range resolve[ListEntry](tx, EntityListEntry, list.ListEntryIDs) {
			present[e.ArticleID] = true
		}
		added = make([]ListEntry, 0)
		for _, articleID := range tx.Related(RelationGroupHasStandardArticle, list.GroupID) {
			if present[articleID] {
				continue
			}
			entry, err := s.createListEntry(tx, ListEntry{
				ListID:             listID,
				ArticleID:          articleID,
				PurchasingPersonID: purchasingPersonID,
				Amount:             1,
				Unit:               domain.UnitPiece,
				IsStandardArticle:  true,
			})
			if err != nil {
				return err
			}
			added = append(added, entry)
		}
		return nil
	})
	if err != nil {
		return nil, res, err
	}
	return added, res, nil
}

// checkListEntryReferences validates the references of next that differ from
// before; a nil before checks all of them.
func (s *Service) checkListEntryReferences(view domain.TransactionView, next ListEntry, before *ListEntry) error {
	if before == nil || next.ListID != before.ListID {
		if err := s.guard.CheckReference(view, EntityShoppingList, next.ListID); err != nil {
			return err
		}
	}
	if before == nil || next.ArticleID != before.ArticleID {
		if err := s.guard.CheckReference(view, EntityArticle, next.ArticleID); err != nil {
			return err
		}
	}
	if before == nil || next.PurchasingPersonID != before.PurchasingPersonID {
		if err := s.guard.CheckReference(view, EntityPerson, next.PurchasingPersonID); err != nil {
			return err
		}
	}
	if next.HasRetailer() && (before == nil || !before.HasRetailer() || *before.RetailerID != *next.RetailerID) {
		if err := s.guard.CheckReference(view, EntityRetailer, *next.RetailerID); err != nil {
			return err
		}
	}
	return nil
}

// normalizeRetailer maps a zero retailer id to no retailer.
func normalizeRetailer(e *ListEntry) {
	if e.RetailerID == nil {
		return
	}
	if *e.RetailerID == 0 {
		e.RetailerID = nil
		return
	}
	id := *e.RetailerID
	e.RetailerID = &id
}
