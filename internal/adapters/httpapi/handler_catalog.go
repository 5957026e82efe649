package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"holma/internal/core"
)

func (h *Handler) listArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.ListArticles(r.Context())
	replyAll(h, w, r, articles, err, toArticle)
}

func (h *Handler) findArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.FindArticlesByName(r.Context(), chi.URLParam(r, "name"))
	replyAll(h, w, r, articles, err, toArticle)
}

func (h *Handler) getArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	article, err := h.svc.GetArticle(r.Context(), id)
	reply(h, w, r, http.StatusOK, article, core.Result{}, err, toArticle)
}

func (h *Handler) createArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	article, res, err := h.svc.CreateArticle(r.Context(), core.Article{Base: core.Base{Name: req.Name}, GroupID: req.Group})
	reply(h, w, r, http.StatusCreated, article, res, err, toArticle)
}

func (h *Handler) updateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch articlePatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	article, res, err := h.svc.UpdateArticle(r.Context(), id, patch.apply)
	reply(h, w, r, http.StatusOK, article, res, err, toArticle)
}

func (h *Handler) deleteArticle(w http.ResponseWriter, r *http.Request) {
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
	res, err := h.svc.DeleteArticle(r.Context(), id, opts...)
	h.replyDeleted(w, r, res, err)
}

func (h *Handler) listRetailers(w http.ResponseWriter, r *http.Request) {
	retailers, err := h.svc.ListRetailers(r.Context())
	replyAll(h, w, r, retailers, err, toRetailer)
}

func (h *Handler) findRetailers(w http.ResponseWriter, r *http.Request) {
	retailers, err := h.svc.FindRetailersByName(r.Context(), chi.URLParam(r, "name"))
	replyAll(h, w, r, retailers, err, toRetailer)
}

func (h *Handler) getRetailer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	retailer, err := h.svc.GetRetailer(r.Context(), id)
	reply(h, w, r, http.StatusOK, retailer, core.Result{}, err, toRetailer)
}

func (h *Handler) createRetailer(w http.ResponseWriter, r *http.Request) {
	var req retailerRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	retailer, res, err := h.svc.CreateRetailer(r.Context(), core.Retailer{Base: core.Base{Name: req.Name}})
	reply(h, w, r, http.StatusCreated, retailer, res, err, toRetailer)
}

func (h *Handler) updateRetailer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch retailerPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	retailer, res, err := h.svc.UpdateRetailer(r.Context(), id, patch.apply)
	reply(h, w, r, http.StatusOK, retailer, res, err, toRetailer)
}

func (h *Handler) deleteRetailer(w http.ResponseWriter, r *http.Request) {
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
	res, err := h.svc.DeleteRetailer(r.Context(), id, opts...)
	h.replyDeleted(w, r, res, err)
}
