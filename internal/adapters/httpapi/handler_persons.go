package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"holma/internal/core"
)

func (h *Handler) listPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.svc.ListPersons(r.Context())
	replyAll(h, w, r, persons, err, toPerson)
}

func (h *Handler) findPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.svc.FindPersonsByName(r.Context(), chi.URLParam(r, "name"))
	replyAll(h, w, r, persons, err, toPerson)
}

func (h *Handler) getPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	person, err := h.svc.GetPerson(r.Context(), id)
	reply(h, w, r, http.StatusOK, person, core.Result{}, err, toPerson)
}

func (h *Handler) createPerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	person, res, err := h.svc.CreatePerson(r.Context(), core.Person{Base: core.Base{Name: req.Name}, Email: req.Email})
	reply(h, w, r, http.StatusCreated, person, res, err, toPerson)
}

func (h *Handler) updatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch personPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	person, res, err := h.svc.UpdatePerson(r.Context(), id, patch.apply)
	reply(h, w, r, http.StatusOK, person, res, err, toPerson)
}

func (h *Handler) deletePerson(w http.ResponseWriter, r *http.Request) {
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
	res, err := h.svc.DeletePerson(r.Context(), id, opts...)
	h.replyDeleted(w, r, res, err)
}

func (h *Handler) groupsOfPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	groups, err := h.svc.GroupsOfPerson(r.Context(), id)
	replyAll(h, w, r, groups, err, toGroup)
}

// createGroupForPerson creates a group owned by the person; the body is optional.
func (h *Handler) createGroupForPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req ownGroupRequest
	if err := decodeOptional(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	group, res, err := h.svc.CreateGroupForPerson(r.Context(), id, req.Name)
	reply(h, w, r, http.StatusCreated, group, res, err, toGroup)
}
