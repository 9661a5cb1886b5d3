package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/auth"
	accdomain "github.com/BruksfildServices01/stay-booking/internal/domain/accommodation"
	"github.com/BruksfildServices01/stay-booking/internal/domain/resource"
	userdomain "github.com/BruksfildServices01/stay-booking/internal/domain/user"
	"github.com/BruksfildServices01/stay-booking/internal/handlers"
	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/middleware"
	"github.com/BruksfildServices01/stay-booking/internal/models"
	"github.com/BruksfildServices01/stay-booking/internal/session"
	ucAccommodation "github.com/BruksfildServices01/stay-booking/internal/usecase/accommodation"
	ucUser "github.com/BruksfildServices01/stay-booking/internal/usecase/user"
)

// App holds the process-wide singletons the routes are built from.
type App struct {
	Users          userdomain.Repository
	Accommodations accdomain.Repository
	Reservations   resource.Repository[models.Reservation]
	AuditLogs      audit.Reader

	Images  ucAccommodation.Images
	JWT     *auth.JWTManager
	Revoker session.Revoker
	Audit   audit.Recorder

	Cookie        handlers.CookieOptions
	ClientOrigins []string
	ErrorDetail   bool

	// MaxBodyBytes caps every request body; zero leaves bodies uncapped.
	MaxBodyBytes int64

	// UploadDir is served under UploadPath when set (local media store).
	UploadDir  string
	UploadPath string

	Logger *slog.Logger
}

// multipartMemory is how much of a multipart form is held in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

func RegisterRoutes(r *gin.Engine, app App) {
	log := app.Logger
	if log == nil {
		log = slog.Default()
	}
	if app.Audit == nil {
		app.Audit = audit.Discard{}
	}
	if app.Revoker == nil {
		app.Revoker = session.Noop{}
	}

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.MaxMultipartMemory = multipartMemory
	r.Use(
		middleware.RequestLogger(log),
		httperr.Recovery(app.ErrorDetail, log),
		middleware.CORSMiddleware(app.ClientOrigins),
		httperr.Handler(app.ErrorDetail, log),
	)
	if app.MaxBodyBytes > 0 {
		r.Use(middleware.BodyLimit(app.MaxBodyBytes))
	}
	r.NoRoute(httperr.NoRoute(app.ErrorDetail, log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if app.UploadDir != "" {
		path := app.UploadPath
		if path == "" {
			path = "/uploads"
		}
		r.Static(path, app.UploadDir)
	}

	// ======================================================
	// USE CASES
	// ======================================================
	createAccommodationUC := ucAccommodation.NewCreateAccommodation(
		app.Accommodations,
		app.Images,
		app.Audit,
	)

	uploadImagesUC := ucAccommodation.NewUploadImages(
		app.Accommodations,
		app.Images,
		app.Audit,
	)

	removeImageUC := ucAccommodation.NewRemoveImage(
		app.Accommodations,
		app.Images,
		app.Audit,
	)

	deleteAccommodationUC := ucAccommodation.NewDeleteAccommodation(
		app.Accommodations,
		app.Images,
		app.Audit,
	)

	updateProfileImageUC := ucUser.NewUpdateProfileImage(
		app.Users,
		app.Images,
		app.Audit,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authn := middleware.NewAuthenticator(app.JWT, app.Users, app.Revoker)

	authHandler := handlers.NewAuthHandler(
		app.Users,
		app.JWT,
		app.Revoker,
		app.Cookie,
		updateProfileImageUC,
		app.Audit,
		log,
	)

	accommodationHandler := handlers.NewAccommodationHandler(
		app.Accommodations,
		app.Audit,
		createAccommodationUC,
		uploadImagesUC,
		removeImageUC,
		deleteAccommodationUC,
	)

	reservationHandler := handlers.NewReservationHandler(
		app.Reservations,
		app.Audit,
	)

	auditLogHandler := handlers.NewAuditLogHandler(app.AuditLogs)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")

	// ------------------------------
	// USERS
	// ------------------------------
	users := api.Group("/users")
	{
		users.POST("/signup", authHandler.Signup(models.RoleGuest))
		users.POST("/signup/host", authHandler.Signup(models.RoleHost))
		users.POST("/login", authHandler.Login)
		users.POST("/logout", authHandler.Logout)
		users.GET("/host/:host_id", authHandler.Host)

		me := users.Group("", authn.Protect())
		me.GET("/me", authHandler.Me)
		me.PATCH("/upload-profile-image", authHandler.UploadProfileImage)
		me.GET("/me/audit-logs", middleware.ScopeWith(middleware.ActorScope), auditLogHandler.List)
	}

	// ------------------------------
	// ACCOMMODATIONS
	// ------------------------------
	accommodations := api.Group("/accommodations")
	{
		accommodations.GET("", accommodationHandler.GetAll)
		accommodations.GET("/locations/summary", accommodationHandler.LocationsSummary)
		accommodations.GET("/:id", accommodationHandler.GetOne)

		host := accommodations.Group("",
			authn.Protect(),
			middleware.RequireRole(models.RoleHost),
			middleware.Scope(),
		)
		host.POST("", accommodationHandler.Create)
		host.GET("/host/listings", accommodationHandler.GetAll)
		host.PATCH("/:id", accommodationHandler.Update)
		host.DELETE("/:id", accommodationHandler.Delete)
		host.POST("/:id/images", accommodationHandler.UploadImages)
		host.PATCH("/:id/images", accommodationHandler.UploadImages)
		host.DELETE("/:id/images", accommodationHandler.RemoveImage)
	}

	// ------------------------------
	// RESERVATIONS
	// ------------------------------
	reservations := api.Group("/reservations", authn.Protect())
	{
		reservations.GET("", middleware.Scope(), reservationHandler.GetAll)
		reservations.POST("", middleware.RequireRole(models.RoleGuest), reservationHandler.Create)
		reservations.DELETE("/:id", middleware.Scope(), reservationHandler.Delete)
	}
}
