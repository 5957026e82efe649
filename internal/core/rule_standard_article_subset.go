package core

import (
	"context"
	"fmt"

	"holma/pkg/domain"
)

// NewStandardArticleSubsetRule keeps every standard article of a group among
// the group's own articles.
func NewStandardArticleSubsetRule() domain.Rule {
	return standardArticleSubsetRule{}
}

type standardArticleSubsetRule struct{}

func (standardArticleSubsetRule) Name() string { return "standard_article_subset" }

func (r standardArticleSubsetRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, g := range listOf[domain.Group](view, domain.EntityGroup) {
		for _, articleID := range view.Related(domain.RelationGroupHasStandardArticle, g.ID) {
			if view.Linked(domain.RelationGroupHasArticle, g.ID, articleID) {
				continue
			}
			res.Violations = append(res.Violations, blocking(r.Name(), domain.ViolationInvariant, domain.EntityGroup, g.ID,
				fmt.Sprintf("standard article %d is not an article of group %d", articleID, g.ID)))
		}
	}
	return res, nil
}
