// Package server exposes the HTTP API: on-demand single-market analysis,
// the persisted scan snapshot, health and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/polyscout/insiderscan/internal/cache"
	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/scanner"
	"github.com/polyscout/insiderscan/internal/snapshot"
)

// Server is the HTTP API service.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	log      *logrus.Logger
	analyzer *scanner.Analyzer
	store    *snapshot.Store
	cache    *cache.TTLCache
}

// New creates the API server and registers its routes.
func New(cfg *config.Config, analyzer *scanner.Analyzer, store *snapshot.Store, log *logrus.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		cfg:      cfg,
		log:      log,
		analyzer: analyzer,
		store:    store,
		cache:    cache.New(cfg.AnalysisCacheTTL),
	}

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	api := e.Group("/api")
	api.GET("/suspicious", s.handleSuspicious)
	api.GET("/snapshot", s.handleSnapshot)

	return s
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	s.log.WithField("addr", addr).Info("API server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying echo instance, used by tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSnapshot(c echo.Context) error {
	snap, err := s.store.Read()
	if err != nil {
		if errors.Is(err, snapshot.ErrNotAvailable) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "snapshot not yet available",
			})
		}
		s.log.WithError(err).Error("Failed to read snapshot")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read snapshot",
		})
	}
	return c.JSON(http.StatusOK, snap)
}
