// Package server exposes the HTTP surface of the agent: resume parsing,
// form analysis, asynchronous fill requests and task polling.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spigell/formfill/internal/filler"
	"github.com/spigell/formfill/internal/logger"
	"github.com/spigell/formfill/internal/resume"
	"github.com/spigell/formfill/internal/tasks"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr   string
	logger *zap.Logger
	filler *filler.Filler
	parser *resume.Parser
	tasks  *tasks.Registry
	http   *http.Server
}

func New(addr string, f *filler.Filler, p *resume.Parser, log *zap.Logger) *Server {
	s := &Server{
		addr:   addr,
		logger: logger.WithFields(log),
		filler: f,
		parser: p,
		tasks:  tasks.NewRegistry(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parse-resume", s.handleParseResume)
	mux.HandleFunc("POST /api/analyze-form", s.handleAnalyzeForm)
	mux.HandleFunc("POST /api/fill-form", s.handleFillForm)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleTaskStatus)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.withLogging(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	s.logger.Info("http server listening", zap.String("address", s.addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
