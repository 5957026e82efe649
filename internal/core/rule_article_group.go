package core

import (
	"context"
	"fmt"

	"holma/pkg/domain"
)

// NewArticleGroupRule requires a list entry's article to belong to the group
// that owns the entry's shopping list.
func NewArticleGroupRule() domain.Rule {
	return articleGroupRule{}
}

type articleGroupRule struct{}

func (articleGroupRule) Name() string { return "article_group" }

func (r articleGroupRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, e := range listOf[domain.ListEntry](view, domain.EntityListEntry) {
		list, err := getAs[domain.ShoppingList](view, domain.EntityShoppingList, e.ListID)
		if err != nil {
			continue
		}
		article, err := getAs[domain.Article](view, domain.EntityArticle, e.ArticleID)
		if err != nil {
			continue
		}
		if article.GroupID != list.GroupID {
			res.Violations = append(res.Violations, blocking(r.Name(), domain.ViolationInvariant, domain.EntityListEntry, e.ID,
				fmt.Sprintf("article %d belongs to group %d, list %d to group %d", article.ID, article.GroupID, list.ID, list.GroupID)))
		}
	}
	return res, nil
}
