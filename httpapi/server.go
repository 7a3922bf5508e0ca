package httpapi

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/dialogkit/config"
	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/entity"
	"github.com/hupe1980/dialogkit/evaluation"
	"github.com/hupe1980/dialogkit/intent"
	"github.com/hupe1980/dialogkit/logging"
	"github.com/hupe1980/dialogkit/pipeline"
)

// Options configures a Server instance.
type Options struct {
	// ContextStore lets chat requests seed the user's conversation
	// state through the request's context field. Nil ignores that
	// field. Pass the same store the pipeline uses.
	ContextStore core.ContextStore

	// Memory backs the conversation endpoints. Nil makes them 404.
	// Pass the same memory the pipeline sinks into.
	Memory core.ConversationMemory

	// Recorder backs the user history endpoint. Nil makes it 404.
	// Pass the same store the pipeline records into.
	Recorder core.ConversationStore

	// Classifier is scored by the evaluation endpoint. Defaults to a
	// classifier with the built-in catalog; pass the pipeline's own
	// classifier so the endpoint reports on live behavior.
	Classifier core.Classifier

	// Extractor is scored by the evaluation endpoint. Defaults to an
	// extractor with the built-in patterns.
	Extractor core.Extractor

	// Harness runs the evaluation endpoint's scenarios. Defaults to
	// the built-in scenario and entity catalogs.
	Harness *evaluation.Harness

	// Logger provides structured logging for requests and failures.
	// Defaults to a no-op logger.
	Logger logging.Logger
}

// Server serves the conversational API over HTTP.
type Server struct {
	cfg        *config.Config
	pipeline   *pipeline.Pipeline
	contexts   core.ContextStore
	memory     core.ConversationMemory
	recorder   core.ConversationStore
	classifier core.Classifier
	extractor  core.Extractor
	harness    *evaluation.Harness
	logger     logging.Logger

	validate *validator.Validate
	limiter  *clientLimiter
	users    *keyedMutex

	httpServer *http.Server
}

// New builds a Server around p with routes, middleware and timeouts
// taken from cfg.
func New(cfg *config.Config, p *pipeline.Pipeline, optFns ...func(o *Options)) *Server {
	opts := Options{
		Classifier: intent.New(),
		Extractor:  entity.New(),
		Harness:    evaluation.New(),
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		cfg:        cfg,
		pipeline:   p,
		contexts:   opts.ContextStore,
		memory:     opts.Memory,
		recorder:   opts.Recorder,
		classifier: opts.Classifier,
		extractor:  opts.Extractor,
		harness:    opts.Harness,
		logger:     opts.Logger,
		validate:   newValidator(),
		users:      newKeyedMutex(),
	}

	if cfg.RateLimitEnabled {
		s.limiter = newClientLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOriginsList(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)

	r.Route(s.cfg.APIPrefix, func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/conversation/{sessionID}", s.handleGetConversation)
		r.Delete("/conversation/{sessionID}", s.handleClearConversation)
		r.Get("/user/{userID}/history", s.handleUserHistory)
		r.Get("/evaluate", s.handleEvaluate)
	})

	return r
}

// newValidator builds the request validator. Validation messages use
// json field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "-" || tag == "" {
			return fld.Name
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		return tag
	})

	return v
}

// Handler returns the server's routed handler, for mounting or testing
// without a listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the listener and blocks until the server stops. A clean
// shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("http server listening", "addr", s.cfg.HTTPAddr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting connections, drains in-flight requests
// until ctx expires, then waits for queued pipeline sink writes.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	s.pipeline.Wait()

	return nil
}
