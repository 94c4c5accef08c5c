// Package server exposes summarease sessions over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/thywilljoshua/summarease/internal/assistant"
	"github.com/thywilljoshua/summarease/internal/export"
	"github.com/thywilljoshua/summarease/internal/session"
)

// Config holds HTTP behaviour settings.
type Config struct {
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

// Server owns the HTTP handlers. Each upload gets its own session.
type Server struct {
	store     session.Store
	assistant *assistant.Assistant
	formatter export.Formatter
	logger    zerolog.Logger
	cfg       Config
}

func New(store session.Store, a *assistant.Assistant, logger zerolog.Logger, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 << 20
	}
	return &Server{
		store:     store,
		assistant: a,
		formatter: export.Formatter{Now: time.Now},
		logger:    logger.With().Str("component", "http").Logger(),
		cfg:       cfg,
	}
}

// WithClock replaces the clock used for export timestamps and filenames.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.formatter.Now = now
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "summarease"})
	})

	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Get("/document", s.getDocument)

			r.Post("/summary", s.createSummary)
			r.Get("/summary", s.getSummary)

			r.Post("/questions", s.askQuestion)
			r.Get("/questions", s.listQuestions)

			r.Post("/quiz", s.createQuiz)
			r.Get("/quiz", s.getQuiz)
			r.Post("/quiz/submit", s.submitQuiz)

			r.Get("/export/{kind}", s.exportReport)
		})
	})

	return r
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
