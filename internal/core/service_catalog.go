package core

import (
	"context"

	"holma/pkg/domain"
)

// ListArticles returns every article ordered by id.
func (s *Service) ListArticles(ctx context.Context) ([]Article, error) {
	return listEntities[Article](ctx, s, "list_articles", EntityArticle)
}

// GetArticle returns the article with id or a NotFoundError.
func (s *Service) GetArticle(ctx context.Context, id int64) (Article, error) {
	return getEntity[Article](ctx, s, "get_article", EntityArticle, id)
}

// FindArticlesByName returns articles whose name equals name exactly.
func (s *Service) FindArticlesByName(ctx context.Context, name string) ([]Article, error) {
	return findEntities[Article](ctx, s, "find_articles", EntityArticle, name)
}

// CreateArticle persists a new article under an existing group.
func (s *Service) CreateArticle(ctx context.Context, article Article) (Article, Result, error) {
	var created Article
	res, err := s.run(ctx, "create_article", func(tx domain.Transaction) error {
		if err := s.guard.CheckReference(tx, EntityGroup, article.GroupID); err != nil {
			return err
		}
		newBase(tx, EntityArticle, &article.Base)
		if err := tx.Insert(article); err != nil {
			return err
		}
		if err := tx.Link(RelationGroupHasArticle, article.GroupID, article.ID); err != nil {
			return err
		}
		var err error
		created, err = getAs[Article](tx, EntityArticle, article.ID)
		return err
	})
	if err != nil {
		return Article{}, res, err
	}
	return created, res, nil
}

// UpdateArticle mutates an article. Moving it to another group drops its
// standard mark in the old group.
func (s *Service) UpdateArticle(ctx context.Context, id int64, mutator func(*Article) error) (Article, Result, error) {
	var updated Article
	res, err := s.run(ctx, "update_article", func(tx domain.Transaction) error {
		current, err := getAs[Article](tx, EntityArticle, id)
		if err != nil {
			return err
		}
		next, err := mutate(current, mutator)
		if err != nil {
			return err
		}
		keepIdentity(&next.Base, current.Base)
		if next.GroupID != current.GroupID {
			if err := s.guard.CheckReference(tx, EntityGroup, next.GroupID); err != nil {
				return err
			}
			tx.Unlink(RelationGroupHasArticle, current.GroupID, id)
			tx.Unlink(RelationGroupHasStandardArticle, current.GroupID, id)
			if err := tx.Link(RelationGroupHasArticle, next.GroupID, id); err != nil {
				return err
			}
		}
		updated, err = putEntity(tx, next)
		return err
	})
	if err != nil {
		return Article{}, res, err
	}
	return updated, res, nil
}

// DeleteArticle removes an article. It fails with HasDependents while list
// entries reference it unless WithDetach is given, in which case those
// entries are removed too.
func (s *Service) DeleteArticle(ctx context.Context, id int64, opts ...DeleteOption) (Result, error) {
	o := resolveDeleteOptions(opts)
	return s.run(ctx, "delete_article", func(tx domain.Transaction) error {
		if err := s.guard.CheckDeletable(tx, EntityArticle, id, o.detach); err != nil {
			return err
		}
		for _, entry := range entriesReferencing(tx, EntityArticle, id) {
			if err := tx.Remove(EntityListEntry, entry.ID); err != nil {
				return err
			}
		}
		return tx.Remove(EntityArticle, id)
	})
}

// ListRetailers returns every retailer ordered by id.
func (s *Service) ListRetailers(ctx context.Context) ([]Retailer, error) {
	return listEntities[Retailer](ctx, s, "list_retailers", EntityRetailer)
}

// GetRetailer returns the retailer with id or a NotFoundError.
func (s *Service) GetRetailer(ctx context.Context, id int64) (Retailer, error) {
	return getEntity[Retailer](ctx, s, "get_retailer", EntityRetailer, id)
}

// FindRetailersByName returns retailers whose name equals name exactly.
func (s *Service) FindRetailersByName(ctx context.Context, name string) ([]Retailer, error) {
	return findEntities[Retailer](ctx, s, "find_retailers", EntityRetailer, name)
}

// CreateRetailer persists a new retailer.
func (s *Service) CreateRetailer(ctx context.Context, retailer Retailer) (Retailer, Result, error) {
	var created Retailer
	res, err := s.run(ctx, "create_retailer", func(tx domain.Transaction) error {
		newBase(tx, EntityRetailer, &retailer.Base)
		var err error
		created, err = insertEntity(tx, retailer)
		return err
	})
	if err != nil {
		return Retailer{}, res, err
	}
	return created, res, nil
}

// UpdateRetailer mutates a retailer.
func (s *Service) UpdateRetailer(ctx context.Context, id int64, mutator func(*Retailer) error) (Retailer, Result, error) {
	var updated Retailer
	res, err := s.run(ctx, "update_retailer", func(tx domain.Transaction) error {
		current, err := getAs[Retailer](tx, EntityRetailer, id)
		if err != nil {
			return err
		}
		next, err := mutate(current, mutator)
		if err != nil {
			return err
		}
		keepIdentity(&next.Base, current.Base)
		updated, err = putEntity(tx, next)
		return err
	})
	if err != nil {
		return Retailer{}, res, err
	}
	return updated, res, nil
}

// DeleteRetailer removes a retailer. It fails with HasDependents while list
// entries reference it unless WithDetach is given, in which case those
// entries lose their retailer.
func (s *Service) DeleteRetailer(ctx context.Context, id int64, opts ...DeleteOption) (Result, error) {
	o := resolveDeleteOptions(opts)
	return s.run(ctx, "delete_retailer", func(tx domain.Transaction) error {
		if err := s.guard.CheckDeletable(tx, EntityRetailer, id, o.detach); err != nil {
			return err
		}
		for _, entry := range entriesReferencing(tx, EntityRetailer, id) {
			entry.RetailerID = nil
			if err := tx.Put(entry); err != nil {
				return err
			}
		}
		return tx.Remove(EntityRetailer, id)
	})
}
