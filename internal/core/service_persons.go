package core

import (
	"context"
	"strings"

	"holma/pkg/domain"
)

// ListPersons returns every person ordered by id.
func (s *Service) ListPersons(ctx context.Context) ([]Person, error) {
	return listEntities[Person](ctx, s, "list_persons", EntityPerson)
}

// GetPerson returns the person with id or a NotFoundError.
func (s *Service) GetPerson(ctx context.Context, id int64) (Person, error) {
	return getEntity[Person](ctx, s, "get_person", EntityPerson, id)
}

// FindPersonsByName returns persons whose name equals name exactly.
func (s *Service) FindPersonsByName(ctx context.Context, name string) ([]Person, error) {
	return findEntities[Person](ctx, s, "find_persons", EntityPerson, name)
}

// CreatePerson persists a new person.
func (s *Service) CreatePerson(ctx context.Context, person Person) (Person, Result, error) {
	var created Person
	res, err := s.run(ctx, "create_person", func(tx domain.Transaction) error {
		newBase(tx, EntityPerson, &person.Base)
		person.Email = strings.TrimSpace(person.Email)
		person.GroupIDs = nil
		var err error
		created, err = insertEntity(tx, person)
		return err
	})
	if err != nil {
		return Person{}, res, err
	}
	return created, res, nil
}

// UpdatePerson mutates a person using the provided mutator.
func (s *Service) UpdatePerson(ctx context.Context, id int64, mutator func(*Person) error) (Person, Result, error) {
	var updated Person
	res, err := s.run(ctx, "update_person", func(tx domain.Transaction) error {
		current, err := getAs[Person](tx, EntityPerson, id)
		if err != nil {
			return err
		}
		next, err := mutate(current, mutator)
		if err != nil {
			return err
		}
		keepIdentity(&next.Base, current.Base)
		next.Email = strings.TrimSpace(next.Email)
		next.GroupIDs = nil
		updated, err = putEntity(tx, next)
		return err
	})
	if err != nil {
		return Person{}, res, err
	}
	return updated, res, nil
}

// DeletePerson removes a person and its memberships. It fails with
// HasDependents while the person owns a group or purchases a live entry.
func (s *Service) DeletePerson(ctx context.Context, id int64, opts ...DeleteOption) (Result, error) {
	o := resolveDeleteOptions(opts)
	return s.run(ctx, "delete_person", func(tx domain.Transaction) error {
		if err := s.guard.CheckDeletable(tx, EntityPerson, id, o.detach); err != nil {
			return err
		}
		return tx.Remove(EntityPerson, id)
	})
}

// GroupsOfPerson returns the groups the person is a member of, in the order
// the memberships were created.
func (s *Service) GroupsOfPerson(ctx context.Context, personID int64) ([]Group, error) {
	var groups []Group
	err := s.read(ctx, "groups_of_person", func(view domain.TransactionView) error {
		if _, err := getAs[Person](view, EntityPerson, personID); err != nil {
			return err
		}
		groups = resolve[Group](view, EntityGroup, view.Related(RelationPersonMemberOfGroup, personID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}
