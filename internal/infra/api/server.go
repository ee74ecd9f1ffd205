package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"subscription-tracker/internal/domain/ports/usecase"
)

const (
	requestTimeout  = 10 * time.Second
	maxBatchRecords = 1000
)

// Server exposes subscription operations over HTTP.
type Server struct {
	subs         usecase.SubscriptionManager
	log          *zerolog.Logger
	batchWorkers int
}

type Option func(*Server)

// WithBatchWorkers sets the pool size used by the batch validation route.
func WithBatchWorkers(n int) Option {
	return func(s *Server) { s.batchWorkers = n }
}

func NewServer(subs usecase.SubscriptionManager, logger *zerolog.Logger, opts ...Option) *Server {
	l := logger.With().Str("component", "api").Logger()
	s := &Server{subs: subs, log: &l}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with middlewares and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log), Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/subscriptions", s.handleCreate)
		r.Post("/subscriptions/validate", s.handleValidate)
		r.Post("/subscriptions/validate/batch", s.handleValidateBatch)
		r.Get("/subscriptions/{id}", s.handleGet)
		r.Get("/users/{userID}/subscriptions", s.handleListByUser)
		r.Get("/stats", s.handleStats)
	})
	return r
}
