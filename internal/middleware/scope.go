package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/models"
	"github.com/BruksfildServices01/stay-booking/internal/query"
)

// OwnerScope is the filter restricting records to those the user owns:
// hosts by host_id, guests by user_id.
func OwnerScope(u *models.User) (query.Condition, error) {
	if u == nil {
		return query.Condition{}, httperr.Unauthorized("You are not logged in! Please log in to get access.")
	}
	if u.Role == models.RoleHost {
		return query.Eq("host_id", u.ID), nil
	}
	return query.Eq("user_id", u.ID), nil
}

// ActorScope restricts audit records to those the user caused.
func ActorScope(u *models.User) (query.Condition, error) {
	if u == nil {
		return query.Condition{}, httperr.Unauthorized("You are not logged in! Please log in to get access.")
	}
	return query.Eq("actor_id", u.ID), nil
}

// Scope stores the current user's OwnerScope on the context. Must run after Protect.
func Scope() gin.HandlerFunc {
	return ScopeWith(OwnerScope)
}

// ScopeWith stores the condition derived by scope from the current user.
func ScopeWith(scope func(*models.User) (query.Condition, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := CurrentUser(c)
		cond, err := scope(user)
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(ContextScope, cond)
		c.Next()
	}
}

func ScopeFrom(c *gin.Context) (query.Condition, bool) {
	v, ok := c.Get(ContextScope)
	if !ok {
		return query.Condition{}, false
	}
	cond, ok := v.(query.Condition)
	return cond, ok
}
