package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"holma/internal/core"
)

func (h *Handler) listShoppingLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.ListShoppingLists(r.Context())
	replyAll(h, w, r, lists, err, toShoppingList)
}

func (h *Handler) findShoppingLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.FindShoppingListsByName(r.Context(), chi.URLParam(r, "name"))
	replyAll(h, w, r, lists, err, toShoppingList)
}

func (h *Handler) getShoppingList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.svc.GetShoppingList(r.Context(), id)
	reply(h, w, r, http.StatusOK, list, core.Result{}, err, toShoppingList)
}

func (h *Handler) createShoppingList(w http.ResponseWriter, r *http.Request) {
	var req shoppingListRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	list, res, err := h.svc.CreateShoppingList(r.Context(), core.ShoppingList{Base: core.Base{Name: req.Name}, GroupID: req.Group})
	reply(h, w, r, http.StatusCreated, list, res, err, toShoppingList)
}

func (h *Handler) updateShoppingList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch shoppingListPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	list, res, err := h.svc.UpdateShoppingList(r.Context(), id, patch.apply)
	reply(h, w, r, http.StatusOK, list, res, err, toShoppingList)
}

func (h *Handler) deleteShoppingList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	opts, err := deleteOptions(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.svc.DeleteShoppingList(r.Context(), id, opts...)
	h.replyDeleted(w, r, res, err)
}

func (h *Handler) entriesOfList(w http.ResponseWriter, r *http.Request) {
	h.related(w, r, core.EntityShoppingList, core.RelationShoppingListHasListEntry)
}

func (h *Handler) addStandardArticlesToList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req standardEntriesRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	entries, res, err := h.svc.AddStandardArticlesToList(r.Context(), id, req.PurchasingPerson)
	reply(h, w, r, http.StatusCreated, entries, res, err, func(in []core.ListEntry) []listEntryResponse {
		return mapAll(in, toListEntry)
	})
}

func (h *Handler) listListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListListEntries(r.Context())
	replyAll(h, w, r, entries, err, toListEntry)
}

func (h *Handler) findListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.FindListEntriesByName(r.Context(), chi.URLParam(r, "name"))
	replyAll(h, w, r, entries, err, toListEntry)
}

func (h *Handler) getListEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.svc.GetListEntry(r.Context(), id)
	reply(h, w, r, http.StatusOK, entry, core.Result{}, err, toListEntry)
}

func (h *Handler) createListEntry(w http.ResponseWriter, r *http.Request) {
	var req listEntryRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, res, err := h.svc.CreateListEntry(r.Context(), req.entry())
	reply(h, w, r, http.StatusCreated, entry, res, err, toListEntry)
}

func (h *Handler) updateListEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch listEntryPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, res, err := h.svc.UpdateListEntry(r.Context(), id, patch.apply)
	reply(h, w, r, http.StatusOK, entry, res, err, toListEntry)
}

func (h *Handler) setListEntryChecked(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req checkedRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, res, err := h.svc.SetListEntryChecked(r.Context(), id, req.Checked)
	reply(h, w, r, http.StatusOK, entry, res, err, toListEntry)
}

func (h *Handler) deleteListEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	opts, err := deleteOptions(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.svc.DeleteListEntry(r.Context(), id, opts...)
	h.replyDeleted(w, r, res, err)
}
