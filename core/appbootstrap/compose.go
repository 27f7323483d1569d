package appbootstrap

import (
	"database/sql"

	"github.com/RishabhSinha02/chronologicon/api"
	"github.com/RishabhSinha02/chronologicon/config"
	"github.com/RishabhSinha02/chronologicon/core/analytics"
	"github.com/RishabhSinha02/chronologicon/core/ingest"
	"github.com/RishabhSinha02/chronologicon/core/store"
	"github.com/RishabhSinha02/chronologicon/core/utils"
)

type runtimeComposition struct {
	serverDeps api.ServerDeps
	workers    []api.BackgroundWorker
}

func composeRuntime(cfg *config.AppConfig, db *sql.DB, logger *utils.Logger) (*runtimeComposition, error) {
	events := store.NewEventsStore(db, cfg.DBDriver)
	registry := ingest.NewRegistry()
	ingestSvc := ingest.NewService(events, registry, logger)
	analyticsSvc := analytics.NewService(events)
	watcher := ingest.NewWatcher(cfg.Ingest.Watch, ingestSvc, logger)

	return &runtimeComposition{
		serverDeps: api.ServerDeps{
			Events:    events,
			Ingest:    ingestSvc,
			Analytics: analyticsSvc,
			Logger:    logger,
		},
		workers: []api.BackgroundWorker{watcher},
	}, nil
}
