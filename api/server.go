package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RishabhSinha02/chronologicon/api/handlers"
	"github.com/RishabhSinha02/chronologicon/config"
	"github.com/RishabhSinha02/chronologicon/core/analytics"
	"github.com/RishabhSinha02/chronologicon/core/ingest"
	"github.com/RishabhSinha02/chronologicon/core/store"
	"github.com/RishabhSinha02/chronologicon/core/utils"
)

// BackgroundWorker is anything the app starts alongside the HTTP server and
// stops on shutdown.
type BackgroundWorker interface {
	StartWithContext(ctx context.Context)
	StopWithContext(ctx context.Context) error
}

type ServerDeps struct {
	Events    store.EventsStore
	Ingest    *ingest.Service
	Analytics *analytics.Service
	Logger    *utils.Logger
}

type Server struct {
	cfg       *config.AppConfig
	events    store.EventsStore
	ingest    *ingest.Service
	analytics *analytics.Service
	logger    *utils.Logger
}

func NewServer(cfg *config.AppConfig, deps ServerDeps) *Server {
	return &Server{
		cfg:       cfg,
		events:    deps.Events,
		ingest:    deps.Ingest,
		analytics: deps.Analytics,
		logger:    deps.Logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Chronologicon Engine is running!"))
	})

	events := handlers.NewEventsHandler(s.cfg.Ingest, s.ingest, s.logger)
	insights := handlers.NewAnalyticsHandler(s.events, s.analytics, s.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.jsonMiddleware)
		r.MethodFunc(http.MethodPost, "/events/ingest", events.SubmitIngestion)
		r.MethodFunc(http.MethodGet, "/events/ingestion-status/{jobId}", events.IngestionStatus)
		r.MethodFunc(http.MethodGet, "/events/search", insights.SearchEvents)
		r.MethodFunc(http.MethodGet, "/timeline/{rootEventId}", insights.Timeline)
		r.MethodFunc(http.MethodGet, "/insights/overlapping-events", insights.OverlappingEvents)
		r.MethodFunc(http.MethodGet, "/insights/temporal-gaps", insights.TemporalGaps)
		r.MethodFunc(http.MethodGet, "/insights/event-influence", insights.EventInfluence)
	})
	return r
}
