package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/httpresp"
	"github.com/BruksfildServices01/stay-booking/internal/middleware"
	"github.com/BruksfildServices01/stay-booking/internal/query"
)

// Resource serves the read, create, update and delete routes shared by every
// stored model. Mutations require an ownership scope on the context (see
// middleware.Scope); reads by id are public.
type Resource[T any] struct {
	repo   resource.Repository[T]
	audit  audit.Recorder
	entity string
	label  string
}

// NewResource builds handlers for entity (used in audit events, e.g. "reservation")
// whose messages refer to it as label (e.g. "Reservation").
func NewResource[T any](
	repo resource.Repository[T],
	audit audit.Recorder,
	entity string,
	label string,
) *Resource[T] {
	return &Resource[T]{
		repo:   repo,
		audit:  audit,
		entity: entity,
		label:  label,
	}
}

func (h *Resource[T]) GetOne(c *gin.Context) {
	doc, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, doc)
}

// GetAll applies the request's query string, narrowed by the scope when one is set.
func (h *Resource[T]) GetAll(c *gin.Context) {
	q, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	if scope, ok := middleware.ScopeFrom(c); ok {
		q = q.With(scope)
	}

	docs, err := h.repo.Find(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, docs)
}

// Create stores the document built by prepare.
func (h *Resource[T]) Create(prepare func(*gin.Context) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := prepare(c)
		if err != nil {
			fail(c, err)
			return
		}
		if err := h.repo.Create(c.Request.Context(), doc); err != nil {
			fail(c, err)
			return
		}

		var id string
		if e, ok := any(doc).(resource.Entity); ok {
			id = e.EntityID()
		}
		h.record(c, "created", id)
		httpresp.Created(c, doc)
	}
}

// Update applies the changes produced by bind to a document the actor owns.
func (h *Resource[T]) Update(bind func(*gin.Context) (resource.Changes, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := scope(c)
		if err != nil {
			fail(c, err)
			return
		}
		changes, err := bind(c)
		if err != nil {
			fail(c, err)
			return
		}
		if changes.Empty() {
			fail(c, httperr.BadRequest("Please provide at least one field to update"))
			return
		}

		id := c.Param("id")
		doc, err := h.repo.Update(c.Request.Context(), id, owner, changes)
		if err != nil {
			fail(c, err)
			return
		}
		h.record(c, "updated", id)
		httpresp.OK(c, doc)
	}
}

func (h *Resource[T]) Delete(c *gin.Context) {
	owner, err := scope(c)
	if err != nil {
		fail(c, err)
		return
	}

	id := c.Param("id")
	if _, err := h.repo.Delete(c.Request.Context(), id, owner); err != nil {
		fail(c, err)
		return
	}
	h.record(c, "deleted", id)
	httpresp.Message(c, h.label+" deleted successfully")
}

func (h *Resource[T]) record(c *gin.Context, verb, id string) {
	var actor string
	if u, ok := middleware.CurrentUser(c); ok {
		actor = u.ID
	}
	h.audit.Dispatch(audit.Event{
		ActorID:  actor,
		Action:   h.entity + "_" + verb,
		Entity:   h.entity,
		EntityID: id,
	})
}

func scope(c *gin.Context) (query.Condition, error) {
	owner, ok := middleware.ScopeFrom(c)
	if !ok {
		return query.Condition{}, httperr.Unauthorized("You do not have permission to access this endpoint")
	}
	return owner, nil
}
