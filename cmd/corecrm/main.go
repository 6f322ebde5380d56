// Command corecrm runs the constituent-correspondence API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/municipallabs/corecrm/internal/api"
	"github.com/municipallabs/corecrm/internal/config"
	"github.com/municipallabs/corecrm/internal/db"
	"github.com/municipallabs/corecrm/internal/db/migrations"
	"github.com/municipallabs/corecrm/internal/dbpool"
	"github.com/municipallabs/corecrm/internal/service"
	"github.com/municipallabs/corecrm/internal/store"
	"github.com/municipallabs/corecrm/internal/ws"
)

const (
	shutdownTimeout      = 15 * time.Second
	systemAuditQueueSize = 256
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	// Stores.
	base := store.Base{Pool: pool, Log: log}
	tenants := store.NewTenantStore(pool)
	messages := store.NewMessageStore(base)
	analysis := store.NewAnalysisStore(base)
	audit := store.NewAuditStore(base)
	search := store.NewSearchStore(base)

	// WebSocket hub and LISTEN/NOTIFY bridge.
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	bridge := db.NewNotifyBridge(log, pool, hub)
	if err := bridge.Start(ctx); err != nil {
		log.WithError(err).Warn("notify bridge unavailable, ws change events disabled")
	}

	// Background workers.
	auditWorker := service.NewSystemAuditWorker(audit, log, systemAuditQueueSize)
	go auditWorker.Run(ctx)

	runner := service.NewTaskRunner(cfg.TaskWorkers, cfg.TaskTimeout, auditWorker, hub, log)

	// Services.
	messageSvc := service.NewMessageService(&base, messages, search, log)
	analysisSvc := service.NewAnalysisService(&base, messages, analysis, audit, hub, log)
	auditSvc := service.NewAuditService(&base, audit, log)
	syncSvc := service.NewSyncService(&base, messages, &service.NoopMailboxSource{Log: log}, runner, log)
	profileSvc := service.NewProfileService(&service.NoopProfileBuilder{Log: log}, runner, log)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:             log,
		Pool:            pool,
		Hub:             hub,
		Messages:        messageSvc,
		Analysis:        analysisSvc,
		Audit:           auditSvc,
		Sync:            syncSvc,
		Profile:         profileSvc,
		Tasks:           runner,
		PrincipalLookup: tenants,
		CORSOrigins:     cfg.CORSOrigins,
		Version:         config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "version": config.Version}).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete")
	}

	hub.Shutdown()
	runner.Wait()

	log.Info("shutdown complete")

	return nil
}
