package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itsDrac/authgate/internal/dependency"
	"github.com/itsDrac/authgate/pkg/logger"
)

type Server struct {
	HTTPServer *http.Server
	Deps       *dependency.Dependencies
	Logger     *logger.Logger
	Router     *chi.Mux
}

func New(deps *dependency.Dependencies) *Server {
	mux := NewRouter(deps)

	return &Server{
		Logger: deps.Logger,
		Deps:   deps,
		Router: mux,
		HTTPServer: &http.Server{
			Addr:              deps.Config.Addr(),
			Handler:           mux,
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

func (s *Server) Run() error {
	s.Logger.Infof("[SERVER] running at -> %s", s.HTTPServer.Addr)
	// Create context that listens for the interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := s.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			s.Logger.Errorw("[SERVER] failed to serve -> ", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	// create shutdown context with 30 - sec timeout
	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Trigger graceful shutdown
	if err := s.HTTPServer.Shutdown(shutCtx); err != nil {
		s.Logger.Errorw("[SERVER] shutdown failed -> ", "error", err)
		return err
	}

	if err := s.Deps.Close(shutCtx); err != nil {
		s.Logger.Errorw("[SERVER] failed to release dependencies -> ", "error", err)
		return err
	}

	s.Logger.Info("[SERVER] stopped")
	return nil
}
