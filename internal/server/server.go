// Package server exposes the widget-facing HTTP endpoints: the chat relay and
// the transcription relay.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/lamdalabs/chetu/internal/chat"
	"github.com/lamdalabs/chetu/internal/transcribe"
)

// Transcriber is the server-facing subset of the upload pipeline.
type Transcriber interface {
	Submit(ctx context.Context, audio []byte) (transcribe.Result, error)
}

// Server bundles handler dependencies for the widget API.
type Server struct {
	logger      *slog.Logger
	relay       chat.Relay
	transcriber Transcriber

	rateLimitPerMinute int
	exposeErrorDetails bool
}

// Options tunes non-dependency server behavior.
type Options struct {
	RateLimitPerMinute int
	ExposeErrorDetails bool
}

func New(logger *slog.Logger, relay chat.Relay, transcriber Transcriber, opts Options) *Server {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 60
	}
	return &Server{
		logger:             logger,
		relay:              relay,
		transcriber:        transcriber,
		rateLimitPerMinute: opts.RateLimitPerMinute,
		exposeErrorDetails: opts.ExposeErrorDetails,
	}
}

// Routes assembles the chi router with CORS, recovery, and rate limiting.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Accept", "Content-Type"},
		MaxAge:             300,
		OptionsPassthrough: true,
	}))
	r.Use(httprate.LimitByIP(s.rateLimitPerMinute, time.Minute))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method Not Allowed"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Options("/chat", preflight)
		api.Post("/chat", s.handleChat)

		api.Options("/transcribe", preflight)
		api.Post("/transcribe", s.handleTranscribe)

		api.Get("/widget/greeting", s.handleGreeting)
	})

	return r
}

// preflight answers CORS preflights with 204; the cors middleware has already
// attached the allow headers before passthrough.
func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logError(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg, args...)
}

func (s *Server) logInfo(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg, args...)
}
