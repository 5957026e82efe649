package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"holma/internal/core"
)

type groupRequest struct {
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

// readOnly lets a PUT body echo a GET response; these fields are ignored.
type readOnly struct {
	ID           json.RawMessage `json:"id"`
	CreationDate json.RawMessage `json:"creation_date"`
}

type groupPatch struct {
	readOnly
	Name    *string `json:"name"`
	OwnerID *int64  `json:"owner_id"`

	Members          json.RawMessage `json:"members"`
	Articles         json.RawMessage `json:"articles"`
	ShoppingLists    json.RawMessage `json:"shoppingslists"`
	StandardArticles json.RawMessage `json:"standardarticles"`
}

func (p groupPatch) apply(g *core.Group) error {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.OwnerID != nil {
		g.OwnerID = *p.OwnerID
	}
	return nil
}

type personRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type personPatch struct {
	readOnly
	Name   *string         `json:"name"`
	Email  *string         `json:"email"`
	Groups json.RawMessage `json:"groups"`
}

func (p personPatch) apply(person *core.Person) error {
	if p.Name != nil {
		person.Name = *p.Name
	}
	if p.Email != nil {
		person.Email = *p.Email
	}
	return nil
}

type ownGroupRequest struct {
	Name string `json:"name"`
}

type shoppingListRequest struct {
	Name  string `json:"name"`
	Group int64  `json:"group"`
}

type shoppingListPatch struct {
	readOnly
	Name        *string         `json:"name"`
	Group       *int64          `json:"group"`
	ListEntries json.RawMessage `json:"list_entries"`
}

func (p shoppingListPatch) apply(l *core.ShoppingList) error {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Group != nil {
		l.GroupID = *p.Group
	}
	return nil
}

type listEntryRequest struct {
	Name              string    `json:"name"`
	List              int64     `json:"list"`
	Article           int64     `json:"article"`
	Amount            float64   `json:"amount"`
	Unit              core.Unit `json:"unit"`
	PurchasingPerson  int64     `json:"purchasing_person"`
	Retailer          *int64    `json:"retailer"`
	Checked           bool      `json:"checked"`
	IsStandardArticle bool      `json:"standardarticle"`
}

func (req listEntryRequest) entry() core.ListEntry {
	return core.ListEntry{
		Base:               core.Base{Name: req.Name},
		ListID:             req.List,
		ArticleID:          req.Article,
		RetailerID:         req.Retailer,
		PurchasingPersonID: req.PurchasingPerson,
		Amount:             req.Amount,
		Unit:               req.Unit,
		Checked:            req.Checked,
		IsStandardArticle:  req.IsStandardArticle,
	}
}

// listEntryPatch treats a retailer of 0 as clearing the reference.
type listEntryPatch struct {
	readOnly
	Name              *string    `json:"name"`
	List              *int64     `json:"list"`
	Article           *int64     `json:"article"`
	Amount            *float64   `json:"amount"`
	Unit              *core.Unit `json:"unit"`
	PurchasingPerson  *int64     `json:"purchasing_person"`
	Retailer          *int64     `json:"retailer"`
	Checked           *bool      `json:"checked"`
	IsStandardArticle *bool      `json:"standardarticle"`
}

func (p listEntryPatch) apply(e *core.ListEntry) error {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.List != nil {
		e.ListID = *p.List
	}
	if p.Article != nil {
		e.ArticleID = *p.Article
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Unit != nil {
		e.Unit = *p.Unit
	}
	if p.PurchasingPerson != nil {
		e.PurchasingPersonID = *p.PurchasingPerson
	}
	if p.Retailer != nil {
		if *p.Retailer == 0 {
			e.RetailerID = nil
		} else {
			id := *p.Retailer
			e.RetailerID = &id
		}
	}
	if p.Checked != nil {
		e.Checked = *p.Checked
	}
	if p.IsStandardArticle != nil {
		e.IsStandardArticle = *p.IsStandardArticle
	}
	return nil
}

type checkedRequest struct {
	Checked bool `json:"checked"`
}

type standardEntriesRequest struct {
	PurchasingPerson int64 `json:"purchasing_person"`
}

type articleRequest struct {
	Name  string `json:"name"`
	Group int64  `json:"group"`
}

type articlePatch struct {
	readOnly
	Name  *string `json:"name"`
	Group *int64  `json:"group"`
}

func (p articlePatch) apply(a *core.Article) error {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Group != nil {
		a.GroupID = *p.Group
	}
	return nil
}

type retailerRequest struct {
	Name string `json:"name"`
}

type retailerPatch struct {
	readOnly
	Name *string `json:"name"`
}

func (p retailerPatch) apply(r *core.Retailer) error {
	if p.Name != nil {
		r.Name = *p.Name
	}
	return nil
}

// decodeOptional accepts an empty body and leaves dst untouched.
func decodeOptional(r *http.Request, dst any) error {
	if err := decode(r, dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
