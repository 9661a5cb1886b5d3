package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/httpresp"
	"github.com/BruksfildServices01/stay-booking/internal/middleware"
	"github.com/BruksfildServices01/stay-booking/internal/query"
)

// defaultAuditPageSize applies when the request has no limit, so page works on its own.
const defaultAuditPageSize = 50

// ======================================================
// HANDLER
// ======================================================

type AuditLogHandler struct {
	logs audit.Reader
}

func NewAuditLogHandler(logs audit.Reader) *AuditLogHandler {
	return &AuditLogHandler{logs: logs}
}

// List returns the caller's own audit trail, newest first. It accepts the usual
// query string, e.g. ?action=accommodation_created&created_at[gte]=2026-01-01&page=2.
// Requires a scope on the context (middleware.ScopeWith(middleware.ActorScope)).
func (h *AuditLogHandler) List(c *gin.Context) {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		fail(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	values := c.Request.URL.Query()
	if values.Get("limit") == "" {
		values.Set("limit", strconv.Itoa(defaultAuditPageSize))
	}
	q, err := query.Parse(values)
	if err != nil {
		fail(c, err)
		return
	}

	logs, err := h.logs.Find(c.Request.Context(), q.With(scope))
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, logs)
}
