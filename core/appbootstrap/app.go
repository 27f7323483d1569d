package appbootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/RishabhSinha02/chronologicon/api"
	"github.com/RishabhSinha02/chronologicon/config"
	"github.com/RishabhSinha02/chronologicon/core/store"
	"github.com/RishabhSinha02/chronologicon/core/utils"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     *config.AppConfig
	logger  *utils.Logger
	server  *api.Server
	workers []api.BackgroundWorker
}

// New opens the database, applies migrations and wires every service the
// HTTP server and background workers need.
func New(cfg *config.AppConfig, logger *utils.Logger) (*App, error) {
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := store.ApplyMigrations(context.Background(), db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}

	rt, err := composeRuntime(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		server:  api.NewServer(cfg, rt.serverDeps),
		workers: rt.workers,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains workers and the server.
func (a *App) Run(ctx context.Context) error {
	for _, w := range a.workers {
		w.StartWithContext(ctx)
	}

	srv := &http.Server{
		Addr:    a.cfg.ListenAddr,
		Handler: a.server.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Printf("listening on %s", a.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, w := range a.workers {
		if err := w.StopWithContext(shutdownCtx); err != nil {
			a.logger.Errorf("worker stop: %v", err)
		}
	}
	return srv.Shutdown(shutdownCtx)
}
