package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	servertiming "github.com/mitchellh/go-server-timing"

	"yantrashilpa.com/web/internal/config"
	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/database"
	apphttp "yantrashilpa.com/web/internal/http"
	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/internal/mailer"
	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/modules/auth"
	"yantrashilpa.com/web/internal/modules/contact"
	"yantrashilpa.com/web/internal/modules/dashboard"
	"yantrashilpa.com/web/internal/modules/pageviews"
	"yantrashilpa.com/web/internal/modules/products"
	"yantrashilpa.com/web/internal/modules/schema"
	"yantrashilpa.com/web/internal/observability"
	"yantrashilpa.com/web/internal/storage"
	"yantrashilpa.com/web/templates"
)

const sessionPurgeEvery = time.Hour

func main() {
	// Prod uses real env vars; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exit", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB, database.Options{})
	if err != nil {
		return err
	}
	if err := schema.Migrate(db); err != nil {
		return err
	}
	if n, err := schema.Seed(ctx, db); err != nil {
		return err
	} else if n > 0 {
		logger.Info("catalog_seeded", "products", n)
	}

	store, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	var mail mailer.Service
	switch {
	case cfg.Mailtrap.Enabled():
		mail = mailer.NewMailtrap(cfg.Mailtrap)
	case cfg.SMTP.Enabled():
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	default:
		mail = mailer.NewLogMailer(logger)
	}

	metrics := observability.NewMetrics(nil)

	authn, err := auth.NewAuthenticator(cfg.Admin)
	if err != nil {
		return err
	}
	sessions := auth.NewSessionStore(db, cfg.Session.TTL)
	authSvc := auth.NewService(auth.ServiceDeps{
		Authenticator: authn,
		Limiter:       auth.NewLimiter(db, cfg.Login.MaxAttempts, cfg.Login.Lockout),
		Sessions:      sessions,
		Logger:        logger,
		Metrics:       metrics,
	})

	productSvc := products.NewService(products.ServiceDeps{
		DB:            db,
		Storage:       store.Storage,
		Logger:        logger,
		Metrics:       metrics,
		MaxImageBytes: cfg.UploadMaxBytes,
	})
	contactSvc := contact.NewService(contact.ServiceDeps{
		DB:       db,
		Mailer:   mail,
		Logger:   logger,
		Metrics:  metrics,
		From:     cfg.Mail.From,
		FromName: cfg.Mail.FromName,
		Inbox:    cfg.Mail.ContactInbox,
	})
	views := pageviews.NewCounter(db)

	site := content.MustLoad()
	renderer := render.New(site)

	dash := dashboard.NewService(dashboard.Sources{
		Products: productSvc.Repo(),
		Views:    views,
		Sessions: sessions,
		Events:   audit.NewLog(db),
		Messages: contactSvc,
	})

	router := apphttp.NewRouter(apphttp.Deps{
		Logger:          logger,
		DB:              db,
		Config:          cfg,
		Site:            site,
		Renderer:        renderer,
		Flash:           flash.NewCodec(cfg.FlashSecret, "flash", cfg.Session.CookieSecure),
		Products:        productSvc,
		Auth:            authSvc,
		Contact:         contactSvc,
		Dashboard:       dash,
		PageViews:       views,
		Static:          templates.Static(),
		UploadDir:       store.LocalDir,
		UploadURLPrefix: store.URLPrefix,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           servertiming.Middleware(router, nil),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go purgeSessions(ctx, sessions, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", "addr", cfg.Addr, "env", cfg.Env, "storage", store.Driver, "db", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func purgeSessions(ctx context.Context, s *auth.SessionStore, logger *slog.Logger) {
	t := time.NewTicker(sessionPurgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("session_purge_failed", "err", err)
				continue
			}
			if n > 0 {
				logger.Info("sessions_purged", "count", n)
			}
		}
	}
}
