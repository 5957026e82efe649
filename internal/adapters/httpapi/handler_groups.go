package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"holma/internal/core"
)

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListGroups(r.Context())
	replyAll(h, w, r, groups, err, toGroup)
}

func (h *Handler) findGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.FindGroupsByName(r.Context(), chi.URLParam(r, "name"))
	replyAll(h, w, r, groups, err, toGroup)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	group, err := h.svc.GetGroup(r.Context(), id)
	reply(h, w, r, http.StatusOK, group, core.Result{}, err, toGroup)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	group, res, err := h.svc.CreateGroup(r.Context(), core.Group{Base: core.Base{Name: req.Name}, OwnerID: req.OwnerID})
	reply(h, w, r, http.StatusCreated, group, res, err, toGroup)
}

func (h *Handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch groupPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	group, res, err := h.svc.UpdateGroup(r.Context(), id, patch.apply)
	reply(h, w, r, http.StatusOK, group, res, err, toGroup)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
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
	res, err := h.svc.DeleteGroup(r.Context(), id, opts...)
	h.replyDeleted(w, r, res, err)
}

// groupEdge resolves the group id and the second path id for membership routes.
func (h *Handler) groupEdge(w http.ResponseWriter, r *http.Request, param string, fn func(groupID, otherID int64) (core.Group, core.Result, error)) {
	groupID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	otherID, err := pathID(r, param)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	group, res, err := fn(groupID, otherID)
	reply(h, w, r, http.StatusOK, group, res, err, toGroup)
}

func (h *Handler) addGroupMember(w http.ResponseWriter, r *http.Request) {
	h.groupEdge(w, r, "personID", func(groupID, personID int64) (core.Group, core.Result, error) {
		return h.svc.AddGroupMember(r.Context(), groupID, personID)
	})
}

func (h *Handler) removeGroupMember(w http.ResponseWriter, r *http.Request) {
	h.groupEdge(w, r, "personID", func(groupID, personID int64) (core.Group, core.Result, error) {
		return h.svc.RemoveGroupMember(r.Context(), groupID, personID)
	})
}

func (h *Handler) addStandardArticle(w http.ResponseWriter, r *http.Request) {
	h.groupEdge(w, r, "articleID", func(groupID, articleID int64) (core.Group, core.Result, error) {
		return h.svc.AddStandardArticle(r.Context(), groupID, articleID)
	})
}

func (h *Handler) removeStandardArticle(w http.ResponseWriter, r *http.Request) {
	h.groupEdge(w, r, "articleID", func(groupID, articleID int64) (core.Group, core.Result, error) {
		return h.svc.RemoveStandardArticle(r.Context(), groupID, articleID)
	})
}
