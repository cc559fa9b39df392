package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinova/vedika-workbench/internal/admin"
	"github.com/clinova/vedika-workbench/internal/auditlog"
	"github.com/clinova/vedika-workbench/internal/auth"
	"github.com/clinova/vedika-workbench/internal/dashboard"
	"github.com/clinova/vedika-workbench/internal/detail"
	"github.com/clinova/vedika-workbench/internal/httpx"
	"github.com/clinova/vedika-workbench/internal/shared/config"
	"github.com/clinova/vedika-workbench/internal/shared/loading"
	"github.com/clinova/vedika-workbench/internal/shared/logger"
	"github.com/clinova/vedika-workbench/internal/shared/metrics"
	"github.com/clinova/vedika-workbench/internal/ui"
	"github.com/clinova/vedika-workbench/internal/vedika"
	"github.com/clinova/vedika-workbench/internal/workbench"
)

// App holds the wired application services.
type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Bus       *loading.Bus
	Notifier  *ui.Notifier
	Overlay   *ui.Overlay
	Session   *auth.Session
	Vedika    *vedika.Client
	Workbench *workbench.Workbench
	Dashboard *dashboard.Dashboard
	Detail    *detail.View
	Admin     *admin.Client
	AuditLog  *auditlog.Client
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	app := buildApp(cfg, log)
	defer app.Notifier.Close()
	defer app.Overlay.Close()

	if err := app.Session.Bootstrap(ctx); err != nil {
		log.WithError(err).Warn("session bootstrap failed")
	}
	log.WithField("state", app.Session.State().String()).Info("session ready")

	var srv *http.Server
	if cfg.Ops.Enabled {
		srv = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Ops.Port),
			Handler:      opsRouter(app),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			log.WithField("addr", srv.Addr).Info("ops server listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("ops server failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("ops server shutdown failed")
		}
	}
}

func buildApp(cfg *config.Config, log *logger.Logger) *App {
	bus := loading.NewBus()
	notifier := ui.NewNotifier()
	overlay := ui.NewOverlay(bus)
	vault := auth.NewVault(cfg.Auth.VaultPath)

	// Session and HTTP client reference each other: the client reads the
	// session's token, the session performs its calls through the client.
	var session *auth.Session
	httpClient := httpx.New(httpx.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		ShowLoading: cfg.API.ShowLoading,
	}, httpx.TokenSourceFunc(func() string {
		if session == nil {
			return ""
		}
		return session.AccessToken()
	}), bus, log)

	session = auth.NewSession(httpClient, vault, auth.Config{
		LoginBurst:    cfg.Auth.LoginBurst,
		LoginInterval: cfg.Auth.LoginInterval,
		RefreshLeeway: cfg.Auth.RefreshLeeway,
	}, log)
	httpClient.SetUnauthorizedHandler(session.HandleUnauthorized)

	vedikaClient := vedika.NewClient(httpClient)

	now := time.Now()
	initialFilter := vedika.IndexFilter{
		DateFrom: now.AddDate(0, 0, -30).Format("2006-01-02"),
		DateTo:   now.Format("2006-01-02"),
		Status:   vedika.StatusRencana,
		Page:     1,
		Limit:    10,
	}

	return &App{
		Config:    cfg,
		Log:       log,
		Bus:       bus,
		Notifier:  notifier,
		Overlay:   overlay,
		Session:   session,
		Vedika:    vedikaClient,
		Workbench: workbench.New(vedikaClient, notifier, initialFilter, log),
		Dashboard: dashboard.New(vedikaClient, log),
		Detail:    detail.NewView(vedikaClient),
		Admin:     admin.NewClient(httpClient),
		AuditLog:  auditlog.NewClient(httpClient),
	}
}

// opsRouter serves health and metrics for the workstation agent.
func opsRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "healthy",
			"session":   app.Session.State().String(),
			"in_flight": app.Bus.InFlight(),
			"time":      time.Now().Format(time.RFC3339),
		})
	})
	r.Handle("/metrics", metrics.Handler())
	return r
}
