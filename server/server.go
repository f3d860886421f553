// Package server exposes the marker pipeline and detail lookups over a
// small HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/iompar/iompar/config"
	"github.com/iompar/iompar/details"
	"github.com/iompar/iompar/pipeline"
)

// Server serves the marker API.
type Server struct {
	pipeline *pipeline.Pipeline
	details  *details.Client
	cfg      config.AppConfig
	log      zerolog.Logger
	httpSrv  *http.Server
}

// New builds a Server around an assembled pipeline. details may be nil when
// no lookup endpoints are configured.
func New(cfg config.AppConfig, p *pipeline.Pipeline, d *details.Client, log zerolog.Logger) *Server {
	s := &Server{pipeline: p, details: d, cfg: cfg, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/markers", s.handleMarkers)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/filters/{id}", s.handleToggleFilter)
	mux.HandleFunc("POST /api/favourites/{type}/{id}", s.handleToggleFavourite)
	mux.HandleFunc("PUT /api/radius", s.handleSetRadius)
	mux.HandleFunc("GET /api/station/{code}", s.handleStation)
	mux.HandleFunc("GET /api/luas/{code}", s.handleLuas)

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins listening in the background.
func (s *Server) Start() {
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal().Err(err).Msg("server error")
		}
	}()
	s.log.Info().Str("addr", s.httpSrv.Addr).Msg("server listening")
}

// HandleGracefulShutdown blocks until SIGINT/SIGTERM and drains the server.
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	s.log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.log.Error().Err(err).Msg("server shutdown error")
	} else {
		s.log.Info().Msg("server shut down successfully")
	}
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }
