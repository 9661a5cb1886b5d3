package handlers

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/auth"
	userdomain "github.com/BruksfildServices01/stay-booking/internal/domain/user"
	"github.com/BruksfildServices01/stay-booking/internal/dto"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/httpresp"
	"github.com/BruksfildServices01/stay-booking/internal/media"
	"github.com/BruksfildServices01/stay-booking/internal/middleware"
	"github.com/BruksfildServices01/stay-booking/internal/models"
	"github.com/BruksfildServices01/stay-booking/internal/session"
	ucUser "github.com/BruksfildServices01/stay-booking/internal/usecase/user"
)

// loggedOutMaxAge is how long the replacement cookie written on logout lives, in seconds.
const loggedOutMaxAge = 10

var errInvalidCredentials = httperr.Unauthorized("Incorrect username or password")

// compareUnknown stands in for the password check when no user matches.
var compareUnknown = auth.CompareDummy

type CookieOptions struct {
	MaxAge int
	// Secure also switches SameSite from Lax to None.
	Secure bool
}

type AuthHandler struct {
	users   userdomain.Repository
	jwt     *auth.JWTManager
	revoker session.Revoker
	cookie  CookieOptions
	profile *ucUser.UpdateProfileImage
	audit   audit.Recorder
	log     *slog.Logger
}

func NewAuthHandler(
	users userdomain.Repository,
	jwt *auth.JWTManager,
	revoker session.Revoker,
	cookie CookieOptions,
	profile *ucUser.UpdateProfileImage,
	audit audit.Recorder,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		users:   users,
		jwt:     jwt,
		revoker: revoker,
		cookie:  cookie,
		profile: profile,
		audit:   audit,
		log:     log,
	}
}

// --------- Responses ---------

type tokenResponse struct {
	Status string   `json:"status"`
	Token  string   `json:"token"`
	Data   userData `json:"data"`
}

type userData struct {
	User *models.User `json:"user"`
}

// --------- Handlers ---------

// Signup creates an account with the given role. A role sent by the client is ignored.
func (h *AuthHandler) Signup(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, bindError(err))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			fail(c, err)
			return
		}

		user := req.User(role, hash)
		if err := h.users.Create(c.Request.Context(), &user); err != nil {
			fail(c, err)
			return
		}

		h.audit.Dispatch(audit.Event{
			ActorID:  user.ID,
			Action:   "user_signed_up",
			Entity:   "user",
			EntityID: user.ID,
			Metadata: map[string]string{"role": role},
		})
		h.sendToken(c, http.StatusCreated, &user)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, httperr.Wrap(http.StatusBadRequest, "Please provide username and password", err))
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if httperr.IsStatus(err, http.StatusNotFound) {
			compareUnknown(req.Password)
			err = errInvalidCredentials
		}
		fail(c, err)
		return
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		fail(c, errInvalidCredentials)
		return
	}

	h.sendToken(c, http.StatusOK, user)
}

// Logout replaces the session cookie and revokes the presented token until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := auth.TokenFromRequest(c.Request); token != "" {
		if claims, err := h.jwt.Validate(token); err == nil && claims.ExpiresAt != nil {
			if err := h.revoker.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				h.log.Warn("token revocation failed", "jti", claims.ID, "error", err)
			}
		}
	}

	h.setCookie(c, auth.LoggedOutValue, loggedOutMaxAge)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}
	httpresp.OK(c, user)
}

// Host returns the public profile of a user: no email or username.
func (h *AuthHandler) Host(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), c.Param("host_id"))
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, user.Public())
}

func (h *AuthHandler) UploadProfileImage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, httperr.Unauthorized("You are not logged in! Please log in to get access."))
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		fail(c, bodyError(err, "Please provide an image"))
		return
	}
	sources := media.FromFileHeaders([]*multipart.FileHeader{fh})
	if err := media.CheckSources(sources, 1); err != nil {
		fail(c, err)
		return
	}

	updated, err := h.profile.Execute(c.Request.Context(), user, &sources[0])
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, updated)
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, user *models.User) {
	token, _, err := h.jwt.Generate(user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	h.setCookie(c, token, h.cookie.MaxAge)
	c.JSON(status, tokenResponse{
		Status: "success",
		Token:  token,
		Data:   userData{User: user},
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", h.cookie.Secure, true)
}
