// Package httpapi exposes the administration core over HTTP under /app.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"holma/internal/core"
)

// Handler serves the listing app resources on top of a core.Service.
type Handler struct {
	svc    *core.Service
	logger *slog.Logger
}

// NewHandler builds a handler; a nil logger falls back to slog.Default.
func NewHandler(svc *core.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts every resource route on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.listGroups)
		r.Post("/", h.createGroup)
		r.Get("/by-name/{name}", h.findGroups)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getGroup)
			r.Put("/", h.updateGroup)
			r.Delete("/", h.deleteGroup)
			r.Get("/members", h.groupRelated(core.RelationPersonMemberOfGroup))
			r.Post("/members/{personID}", h.addGroupMember)
			r.Delete("/members/{personID}", h.removeGroupMember)
			r.Get("/articles", h.groupRelated(core.RelationGroupHasArticle))
			r.Get("/shoppinglists", h.groupRelated(core.RelationGroupHasShoppingList))
			r.Get("/standardarticles", h.groupRelated(core.RelationGroupHasStandardArticle))
			r.Post("/standardarticles/{articleID}", h.addStandardArticle)
			r.Delete("/standardarticles/{articleID}", h.removeStandardArticle)
		})
	})
	r.Route("/persons", func(r chi.Router) {
		r.Get("/", h.listPersons)
		r.Post("/", h.createPerson)
		r.Get("/by-name/{name}", h.findPersons)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getPerson)
			r.Put("/", h.updatePerson)
			r.Delete("/", h.deletePerson)
			r.Get("/groups", h.groupsOfPerson)
			r.Post("/groups", h.createGroupForPerson)
		})
	})
	r.Route("/shoppinglists", func(r chi.Router) {
		r.Get("/", h.listShoppingLists)
		r.Post("/", h.createShoppingList)
		r.Get("/by-name/{name}", h.findShoppingLists)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getShoppingList)
			r.Put("/", h.updateShoppingList)
			r.Delete("/", h.deleteShoppingList)
			r.Get("/listentries", h.entriesOfList)
			r.Post("/standardarticles", h.addStandardArticlesToList)
		})
	})
	r.Route("/listentries", func(r chi.Router) {
		r.Get("/", h.listListEntries)
		r.Post("/", h.createListEntry)
		r.Get("/by-name/{name}", h.findListEntries)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getListEntry)
			r.Put("/", h.updateListEntry)
			r.Delete("/", h.deleteListEntry)
			r.Put("/checked", h.setListEntryChecked)
		})
	})
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", h.listArticles)
		r.Post("/", h.createArticle)
		r.Get("/by-name/{name}", h.findArticles)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getArticle)
			r.Put("/", h.updateArticle)
			r.Delete("/", h.deleteArticle)
		})
	})
	r.Route("/retailers", func(r chi.Router) {
		r.Get("/", h.listRetailers)
		r.Post("/", h.createRetailer)
		r.Get("/by-name/{name}", h.findRetailers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getRetailer)
			r.Put("/", h.updateRetailer)
			r.Delete("/", h.deleteRetailer)
		})
	})
}

// reply writes v through fn or the error. Mutations pass their rule result.
func reply[T any, R any](h *Handler, w http.ResponseWriter, r *http.Request, status int, v T, res core.Result, err error, fn func(T) R) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeWarnings(w, res)
	writeJSON(w, status, fn(v))
}

func replyAll[T any, R any](h *Handler, w http.ResponseWriter, r *http.Request, v []T, err error, fn func(T) R) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapAll(v, fn))
}

func (h *Handler) replyDeleted(w http.ResponseWriter, r *http.Request, res core.Result, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeWarnings(w, res)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) related(w http.ResponseWriter, r *http.Request, anchor core.EntityType, rel core.RelationKind) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entities, err := h.svc.Related(r.Context(), anchor, id, rel)
	replyAll(h, w, r, entities, err, toResponse)
}

func (h *Handler) groupRelated(rel core.RelationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.related(w, r, core.EntityGroup, rel)
	}
}
