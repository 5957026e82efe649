package core

import (
	"context"

	"holma/pkg/domain"
)

func listEntities[T Entity](ctx context.Context, s *Service, op string, kind EntityType) ([]T, error) {
	var out []T
	err := s.read(ctx, op, func(view domain.TransactionView) error {
		out = listOf[T](view, kind)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getEntity[T Entity](ctx context.Context, s *Service, op string, kind EntityType, id int64) (T, error) {
	var out T
	err := s.read(ctx, op, func(view domain.TransactionView) error {
		var err error
		out, err = getAs[T](view, kind, id)
		return err
	})
	return out, err
}

func findEntities[T Entity](ctx context.Context, s *Service, op string, kind EntityType, name string) ([]T, error) {
	var out []T
	err := s.read(ctx, op, func(view domain.TransactionView) error {
		out = castAll[T](view.FindByName(kind, name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// insertEntity stores a freshly allocated entity and returns its decorated form.
func insertEntity[T Entity](tx domain.Transaction, entity T) (T, error) {
	if err := tx.Insert(entity); err != nil {
		var zero T
		return zero, err
	}
	return getAs[T](tx, entity.EntityType(), entity.EntityID())
}

// putEntity replaces an existing entity and returns its decorated form.
func putEntity[T Entity](tx domain.Transaction, entity T) (T, error) {
	if err := tx.Put(entity); err != nil {
		var zero T
		return zero, err
	}
	return getAs[T](tx, entity.EntityType(), entity.EntityID())
}

// newBase fills identity and creation date for an entity about to be inserted.
func newBase(tx domain.Transaction, kind EntityType, b *Base) {
	b.ID = tx.Allocate(kind)
	b.Name = domain.NormalizeName(b.Name)
	b.CreationDate = tx.Now()
}

// keepIdentity restores the fields callers may not change through an update.
func keepIdentity(b *Base, before Base) {
	b.ID = before.ID
	b.CreationDate = before.CreationDate
	b.Name = domain.NormalizeName(b.Name)
}

func mutate[T any](current T, mutator func(*T) error) (T, error) {
	next := current
	if mutator == nil {
		return next, nil
	}
	if err := mutator(&next); err != nil {
		var zero T
		return zero, err
	}
	return next, nil
}
