package core

import (
	"context"
	"fmt"

	"holma/pkg/domain"
)

// ListGroups returns every group ordered by id.
func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	return listEntities[Group](ctx, s, "list_groups", EntityGroup)
}

// GetGroup returns the group with id or a NotFoundError.
func (s *Service) GetGroup(ctx context.Context, id int64) (Group, error) {
	return getEntity[Group](ctx, s, "get_group", EntityGroup, id)
}

// FindGroupsByName returns groups whose name equals name exactly.
func (s *Service) FindGroupsByName(ctx context.Context, name string) ([]Group, error) {
	return findEntities[Group](ctx, s, "find_groups", EntityGroup, name)
}

// CreateGroup persists a new group owned by group.OwnerID, who becomes its
// first member.
func (s *Service) CreateGroup(ctx context.Context, group Group) (Group, Result, error) {
	var created Group
	res, err := s.run(ctx, "create_group", func(tx domain.Transaction) error {
		var err error
		created, err = s.createGroup(tx, group)
		return err
	})
	if err != nil {
		return Group{}, res, err
	}
	return created, res, nil
}

// CreateGroupForPerson creates a group owned by an existing person. A missing
// person yields NotFound. An empty name derives one from the person.
func (s *Service) CreateGroupForPerson(ctx context.Context, personID int64, name string) (Group, Result, error) {
	var created Group
	res, err := s.run(ctx, "create_group_for_person", func(tx domain.Transaction) error {
		person, err := getAs[Person](tx, EntityPerson, personID)
		if err != nil {
			return err
		}
		if domain.NormalizeName(name) == "" {
			name = fmt.Sprintf("%s's group", person.Name)
		}
		created, err = s.createGroup(tx, Group{Base: Base{Name: name}, OwnerID: person.ID})
		return err
	})
	if err != nil {
		return Group{}, res, err
	}
	return created, res, nil
}

func (s *Service) createGroup(tx domain.Transaction, group Group) (Group, error) {
	if err := s.guard.CheckReference(tx, EntityPerson, group.OwnerID); err != nil {
		return Group{}, err
	}
	newBase(tx, EntityGroup, &group.Base)
	clearGroupDerived(&group)
	if err := tx.Insert(group); err != nil {
		return Group{}, err
	}
	if err := tx.Link(RelationPersonMemberOfGroup, group.OwnerID, group.ID); err != nil {
		return Group{}, err
	}
	if err := s.guard.CheckOwnerIsMember(tx, group.ID); err != nil {
		return Group{}, err
	}
	return getAs[Group](tx, EntityGroup, group.ID)
}

// UpdateGroup mutates a group using the provided mutator. A new owner must
// already be a member of the group.
func (s *Service) UpdateGroup(ctx context.Context, id int64, mutator func(*Group) error) (Group, Result, error) {
	var updated Group
	res, err := s.run(ctx, "update_group", func(tx domain.Transaction) error {
		current, err := getAs[Group](tx, EntityGroup, id)
		if err != nil {
			return err
		}
		next, err := mutate(current, mutator)
		if err != nil {
			return err
		}
		keepIdentity(&next.Base, current.Base)
		clearGroupDerived(&next)
		if next.OwnerID != current.OwnerID {
			if err := s.guard.CheckReference(tx, EntityPerson, next.OwnerID); err != nil {
				return err
			}
		}
		if err := tx.Put(next); err != nil {
			return err
		}
		if err := s.guard.CheckOwnerIsMember(tx, id); err != nil {
			return err
		}
		updated, err = getAs[Group](tx, EntityGroup, id)
		return err
	})
	if err != nil {
		return Group{}, res, err
	}
	return updated, res, nil
}

// DeleteGroup removes a group together with its shopping lists, their
// entries and the group's articles. Members are detached, never deleted.
func (s *Service) DeleteGroup(ctx context.Context, id int64, opts ...DeleteOption) (Result, error) {
	o := resolveDeleteOptions(opts)
	return s.run(ctx, "delete_group", func(tx domain.Transaction) error {
		if err := s.guard.CheckDeletable(tx, EntityGroup, id, o.detach); err != nil {
			return err
		}
		for _, listID := range tx.Related(RelationGroupHasShoppingList, id) {
			if err := removeShoppingList(tx, listID); err != nil {
				return err
			}
		}
		for _, articleID := range tx.Related(RelationGroupHasArticle, id) {
			if err := tx.Remove(EntityArticle, articleID); err != nil {
				return err
			}
		}
		return tx.Remove(EntityGroup, id)
	})
}

// AddGroupMember links a person to a group. Adding an existing member is a no-op.
func (s *Service) AddGroupMember(ctx context.Context, groupID, personID int64) (Group, Result, error) {
	return s.changeGroup(ctx, "add_group_member", groupID, func(tx domain.Transaction) error {
		if err := s.guard.CheckReference(tx, EntityPerson, personID); err != nil {
			return err
		}
		return tx.Link(RelationPersonMemberOfGroup, personID, groupID)
	})
}

// RemoveGroupMember unlinks a person from a group. Removing the owner fails
// with InvariantViolation.
func (s *Service) RemoveGroupMember(ctx context.Context, groupID, personID int64) (Group, Result, error) {
	return s.changeGroup(ctx, "remove_group_member", groupID, func(tx domain.Transaction) error {
		tx.Unlink(RelationPersonMemberOfGroup, personID, groupID)
		return s.guard.CheckOwnerIsMember(tx, groupID)
	})
}

// AddStandardArticle marks one of the group's articles as a standard article.
func (s *Service) AddStandardArticle(ctx context.Context, groupID, articleID int64) (Group, Result, error) {
	return s.changeGroup(ctx, "add_standard_article", groupID, func(tx domain.Transaction) error {
		if err := s.guard.CheckReference(tx, EntityArticle, articleID); err != nil {
			return err
		}
		return tx.Link(RelationGroupHasStandardArticle, groupID, articleID)
	})
}

// RemoveStandardArticle clears the standard mark; the article itself stays.
func (s *Service) RemoveStandardArticle(ctx context.Context, groupID, articleID int64) (Group, Result, error) {
	return s.changeGroup(ctx, "remove_standard_article", groupID, func(tx domain.Transaction) error {
		tx.Unlink(RelationGroupHasStandardArticle, groupID, articleID)
		return nil
	})
}

// changeGroup runs fn for an existing group and returns the group afterwards.
func (s *Service) changeGroup(ctx context.Context, op string, groupID int64, fn func(tx domain.Transaction) error) (Group, Result, error) {
	var group Group
	res, err := s.run(ctx, op, func(tx domain.Transaction) error {
		if _, err := getAs[Group](tx, EntityGroup, groupID); err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
		var err error
		group, err = getAs[Group](tx, EntityGroup, groupID)
		return err
	})
	if err != nil {
		return Group{}, res, err
	}
	return group, res, nil
}

func clearGroupDerived(g *Group) {
	g.MemberIDs = nil
	g.ArticleIDs = nil
	g.ShoppingListIDs = nil
	g.StandardArticleIDs = nil
}
