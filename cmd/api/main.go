package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/stay-booking/internal/audit"
	"github.com/BruksfildServices01/stay-booking/internal/auth"
	"github.com/BruksfildServices01/stay-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/stay-booking/internal/db"
	"github.com/BruksfildServices01/stay-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/stay-booking/internal/infra/repository"
	"github.com/BruksfildServices01/stay-booking/internal/logging"
	"github.com/BruksfildServices01/stay-booking/internal/media"
	"github.com/BruksfildServices01/stay-booking/internal/routes"
	"github.com/BruksfildServices01/stay-booking/internal/session"
	"github.com/BruksfildServices01/stay-booking/internal/validators"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := validators.Register(cfg.CheckEmailDomain); err != nil {
		return err
	}

	db, err := dbpkg.NewDB(cfg, logging.WithComponent(log, "db"))
	if err != nil {
		return err
	}
	defer dbpkg.Close(db)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	users := infraRepo.NewUserGormRepository(db)
	accommodations, err := infraRepo.NewAccommodationGormRepository(db)
	if err != nil {
		return err
	}
	reservations, err := infraRepo.NewReservationGormRepository(db)
	if err != nil {
		return err
	}
	auditLogs, err := infraRepo.NewAuditLogGormRepository(db)
	if err != nil {
		return err
	}

	store, uploadDir, err := newStore(cfg)
	if err != nil {
		return err
	}
	format, err := media.ParseFormat(cfg.ImageFormat)
	if err != nil {
		return err
	}
	pipeline := media.NewPipeline(store, format, cfg.MediaConcurrency, logging.WithComponent(log, "media"))

	revoker, err := session.Open(ctx, cfg.RedisURL, logging.WithComponent(log, "session"))
	if err != nil {
		return err
	}
	defer revoker.Close()

	dispatcher := audit.NewDispatcher(audit.New(db), logging.WithComponent(log, "audit"))
	defer dispatcher.Close()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	routes.RegisterRoutes(r, routes.App{
		Users:          users,
		Accommodations: accommodations,
		Reservations:   reservations,
		AuditLogs:      auditLogs,
		Images:         pipeline,
		JWT:            auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn),
		Revoker:        revoker,
		Audit:          dispatcher,
		Cookie: handlers.CookieOptions{
			MaxAge: cfg.CookieMaxAge(),
			Secure: cfg.IsProduction(),
		},
		ClientOrigins: cfg.ClientOrigins,
		ErrorDetail:   cfg.ErrorDetail,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		UploadDir:     uploadDir,
		UploadPath:    cfg.Storage.UploadPath,
		Logger:        logging.WithComponent(log, "http"),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case serveErr = <-errCh:
		log.Error("server error, shutting down", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped gracefully")
	return serveErr
}

// newStore returns the configured media store and, for the local driver, the
// directory to serve as static files.
func newStore(cfg *config.Config) (media.Store, string, error) {
	s := cfg.Storage
	if s.Driver == "s3" {
		store, err := media.NewS3Store(media.S3Config{
			Bucket:    s.Bucket,
			Region:    s.Region,
			Endpoint:  s.Endpoint,
			AccessKey: s.AccessKey,
			SecretKey: s.SecretKey,
			PublicURL: s.PublicURL,
			URLTTL:    s.URLTTL,
			PathStyle: s.PathStyle,
		})
		return store, "", err
	}

	store, err := media.NewLocalStore(s.UploadDir, s.UploadPath)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
