package httpapi

import (
	"holma/internal/core"
)

// Wire representations keep the field names clients of the listing app
// already consume. Timestamps travel as Unix seconds.

type groupResponse struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	CreationDate     int64   `json:"creation_date"`
	OwnerID          int64   `json:"owner_id"`
	Members          []int64 `json:"members"`
	Articles         []int64 `json:"articles"`
	ShoppingLists    []int64 `json:"shoppingslists"`
	StandardArticles []int64 `json:"standardarticles"`
}

type personResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CreationDate int64   `json:"creation_date"`
	Email        string  `json:"email"`
	Groups       []int64 `json:"groups"`
}

type shoppingListResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CreationDate int64   `json:"creation_date"`
	Group        int64   `json:"group"`
	ListEntries  []int64 `json:"list_entries"`
}

type listEntryResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	CreationDate      int64     `json:"creation_date"`
	List              int64     `json:"list"`
	Article           int64     `json:"article"`
	Amount            float64   `json:"amount"`
	Unit              core.Unit `json:"unit"`
	PurchasingPerson  int64     `json:"purchasing_person"`
	Retailer          *int64    `json:"retailer"`
	Checked           bool      `json:"checked"`
	IsStandardArticle bool      `json:"standardarticle"`
}

type articleResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CreationDate int64  `json:"creation_date"`
	Group        int64  `json:"group"`
}

type retailerResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CreationDate int64  `json:"creation_date"`
}

func ids(in []int64) []int64 {
	if in == nil {
		return []int64{}
	}
	return in
}

func unix(b core.Base) int64 {
	if b.CreationDate.IsZero() {
		return 0
	}
	return b.CreationDate.Unix()
}

func toGroup(g core.Group) groupResponse {
	return groupResponse{
		ID:               g.ID,
		Name:             g.Name,
		CreationDate:     unix(g.Base),
		OwnerID:          g.OwnerID,
		Members:          ids(g.MemberIDs),
		Articles:         ids(g.ArticleIDs),
		ShoppingLists:    ids(g.ShoppingListIDs),
		StandardArticles: ids(g.StandardArticleIDs),
	}
}

func toPerson(p core.Person) personResponse {
	return personResponse{
		ID:           p.ID,
		Name:         p.Name,
		CreationDate: unix(p.Base),
		Email:        p.Email,
		Groups:       ids(p.GroupIDs),
	}
}

func toShoppingList(l core.ShoppingList) shoppingListResponse {
	return shoppingListResponse{
		ID:           l.ID,
		Name:         l.Name,
		CreationDate: unix(l.Base),
		Group:        l.GroupID,
		ListEntries:  ids(l.ListEntryIDs),
	}
}

func toListEntry(e core.ListEntry) listEntryResponse {
	out := listEntryResponse{
		ID:                e.ID,
		Name:              e.Name,
		CreationDate:      unix(e.Base),
		List:              e.ListID,
		Article:           e.ArticleID,
		Amount:            e.Amount,
		Unit:              e.Unit,
		PurchasingPerson:  e.PurchasingPersonID,
		Checked:           e.Checked,
		IsStandardArticle: e.IsStandardArticle,
	}
	if e.HasRetailer() {
		r := *e.RetailerID
		out.Retailer = &r
	}
	return out
}

func toArticle(a core.Article) articleResponse {
	return articleResponse{ID: a.ID, Name: a.Name, CreationDate: unix(a.Base), Group: a.GroupID}
}

func toRetailer(r core.Retailer) retailerResponse {
	return retailerResponse{ID: r.ID, Name: r.Name, CreationDate: unix(r.Base)}
}

// toResponse maps any entity onto its wire shape.
func toResponse(e core.Entity) any {
	switch v := e.(type) {
	case core.Group:
		return toGroup(v)
	case core.Person:
		return toPerson(v)
	case core.ShoppingList:
		return toShoppingList(v)
	case core.ListEntry:
		return toListEntry(v)
	case core.Article:
		return toArticle(v)
	case core.Retailer:
		return toRetailer(v)
	default:
		return nil
	}
}

func mapAll[T any, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
