package middleware

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/auth"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/models"
	"github.com/BruksfildServices01/stay-booking/internal/session"
)

const (
	ContextUser  = "currentUser"
	ContextStage = "authStage"
	ContextScope = "ownerScope"
)

type UserLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type Authenticator struct {
	jwt     *auth.JWTManager
	users   UserLoader
	revoker session.Revoker
}

func NewAuthenticator(jwt *auth.JWTManager, users UserLoader, revoker session.Revoker) *Authenticator {
	if revoker == nil {
		revoker = session.Noop{}
	}
	return &Authenticator{jwt: jwt, users: users, revoker: revoker}
}

// Protect only lets requests through whose token verifies, is not revoked and
// still belongs to an existing user. That user is attached to the context.
func (a *Authenticator) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextStage, auth.Unauthenticated)

		token := auth.TokenFromRequest(c.Request)
		if token == "" {
			abort(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
			return
		}
		c.Set(ContextStage, auth.TokenPresent)

		claims, err := a.jwt.Validate(token)
		if err != nil {
			abort(c, httperr.Wrap(http.StatusUnauthorized, "Invalid token. Please log in again!", err))
			return
		}

		revoked, err := a.revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			abort(c, err)
			return
		}
		if revoked {
			abort(c, httperr.Unauthorized("Your session has ended. Please log in again."))
			return
		}
		c.Set(ContextStage, auth.Verified)

		user, err := a.users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if httperr.IsStatus(err, http.StatusNotFound) {
				err = httperr.Unauthorized("The user belonging to this token no longer exists.")
			}
			abort(c, err)
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextStage, auth.Loaded)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

// Stage reports how far Protect got with this request.
func Stage(c *gin.Context) auth.Stage {
	if v, ok := c.Get(ContextStage); ok {
		if s, ok := v.(auth.Stage); ok {
			return s
		}
	}
	return auth.Unauthenticated
}

// RequireRole must run after Protect.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abort(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
			return
		}
		if !slices.Contains(roles, user.Role) {
			abort(c, httperr.Forbidden("You do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
