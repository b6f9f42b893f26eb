package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/haytac/emoji-translator/internal/logging"
	"github.com/haytac/emoji-translator/internal/metrics"
	"github.com/haytac/emoji-translator/internal/translator"
	"github.com/haytac/emoji-translator/pkg/interfaces"
)

// Config holds HTTP server settings.
type Config struct {
	Address      string
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TranslateRequest is the POST /v1/translate body.
type TranslateRequest struct {
	Text    string `json:"text"`
	Explain bool   `json:"explain"`
}

// TranslateResponse is returned by both translate routes.
type TranslateResponse struct {
	Emoji  string                   `json:"emoji"`
	Tokens []translator.TokenResult `json:"tokens,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes a Translator over HTTP.
type Server struct {
	cfg        Config
	translator interfaces.Translator
	router     chi.Router
}

// New builds the router for t.
func New(cfg Config, t interfaces.Translator) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 * 1024
	}
	s := &Server{cfg: cfg, translator: t}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/translate", s.handleTranslateQuery)
		r.Post("/translate", s.handleTranslateBody)
		r.Get("/stats", s.handleStats)
	})
	r.Handle("/metrics", metrics.Handler())

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.cfg.Address).Msg("Starting HTTP API server")
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("Shutting down HTTP API server...")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.translator.Ready() {
		s.writeJSON(w, r, "healthz", http.StatusServiceUnavailable, map[string]string{"status": "initializing"})
		return
	}
	s.writeJSON(w, r, "healthz", http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, "stats", http.StatusOK, s.translator.Stats())
}

func (s *Server) handleTranslateQuery(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	s.writeJSON(w, r, "translate", http.StatusOK, TranslateResponse{Emoji: s.translator.Translate(text)})
}

func (s *Server) handleTranslateBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, r, "translate", http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		s.writeJSON(w, r, "translate", http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	var resp TranslateResponse
	if req.Explain {
		resp.Emoji, resp.Tokens = s.translator.TranslateExplained(req.Text)
	} else {
		resp.Emoji = s.translator.Translate(req.Text)
	}
	s.writeJSON(w, r, "translate", http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, route string, status int, body any) {
	metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("Failed to write response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger := logging.Component("http")
		logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
