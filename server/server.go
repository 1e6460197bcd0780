// Package server exposes the bridge dispatcher over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ideamans/go-sheetbridge/bridge"
)

// BatchIDHeader carries the ID assigned to each command batch
const BatchIDHeader = "X-Batch-Id"

const (
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 10 * time.Second
)

// Config holds HTTP server configuration
type Config struct {
	Port string // Listening port (default: 3000)
}

// Server routes HTTP requests to the dispatcher
type Server struct {
	config     Config
	router     *chi.Mux
	dispatcher *bridge.Dispatcher
	log        logrus.FieldLogger
}

// New creates a new server. A nil logger uses the standard logrus logger.
func New(config Config, dispatcher *bridge.Dispatcher, log logrus.FieldLogger) *Server {
	if config.Port == "" {
		config.Port = "3000"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		config:     config,
		router:     chi.NewRouter(),
		dispatcher: dispatcher,
		log:        log,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleAlive)
	s.router.Post("/puente", s.handleBatch)
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("addr", "http://localhost:"+s.config.Port).Info("bridge listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) handleAlive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "sheetbridge: puente activo y escuchando")
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	batchID := uuid.NewString()
	w.Header().Set(BatchIDHeader, batchID)

	log := s.log.WithField("batch", batchID)

	var request bridge.Request
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&request); err != nil {
		log.WithError(err).Warn("malformed batch")
		writeJSON(w, http.StatusBadRequest, map[string]string{"mensaje": "invalid request body: " + err.Error()})
		return
	}
	if request.Commands == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"mensaje": "comandos is required"})
		return
	}

	log.WithField("commands", len(request.Commands)).Info("batch received")

	response := s.dispatcher.WithLogger(log).Handle(r.Context(), request)
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one structured entry per request
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start),
				}).Info("request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
