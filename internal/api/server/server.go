// Package server exposes the ingest process status over HTTP: liveness of the
// pipeline and its storage backend, and the pipeline counters.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/sensor-buffer/internal/apperr"
	mw "github.com/DjordjeVuckovic/sensor-buffer/internal/middleware"
	"github.com/DjordjeVuckovic/sensor-buffer/internal/pipeline"
	pkgserver "github.com/DjordjeVuckovic/sensor-buffer/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
)

// StatsProvider is satisfied by *pipeline.Pipeline[T] for any T.
type StatsProvider interface {
	Name() string
	Stats() pipeline.Stats
}

type HealthResponse struct {
	Status   string          `json:"status"`
	Checkers map[string]bool `json:"checkers"`
}

type Server struct {
	Echo *echo.Echo

	cfg      *Config
	checkers map[string]pkgserver.HealthChecker
}

func New(cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.DisableHTTP2 = !cfg.UseHttp2

	return &Server{
		Echo:     e,
		cfg:      cfg,
		checkers: make(map[string]pkgserver.HealthChecker),
	}
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(mw.Logger(mw.SkipPaths("/health")))
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet},
	}))
	return s
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return s
}

// WithHealthChecker registers a named checker reported by the health endpoint.
func (s *Server) WithHealthChecker(name string, hc pkgserver.HealthChecker) *Server {
	s.checkers[name] = hc
	return s
}

// SetupHealthChecks answers 200 when every registered checker is healthy and 503 otherwise.
func (s *Server) SetupHealthChecks(path string) *Server {
	s.Echo.GET(path, func(c echo.Context) error {
		res := HealthResponse{Status: "ok", Checkers: make(map[string]bool, len(s.checkers))}
		for name, hc := range s.checkers {
			healthy := hc.Healthy(c.Request().Context())
			res.Checkers[name] = healthy
			if !healthy {
				res.Status = "unavailable"
			}
		}
		if res.Status != "ok" {
			return c.JSON(http.StatusServiceUnavailable, res)
		}
		return c.JSON(http.StatusOK, res)
	})
	return s
}

func (s *Server) SetupStats(path string, providers ...StatsProvider) *Server {
	s.Echo.GET(path, func(c echo.Context) error {
		res := make(map[string]pipeline.Stats, len(providers))
		for _, p := range providers {
			res[p.Name()] = p.Stats()
		}
		return c.JSON(http.StatusOK, res)
	})
	return s
}

// Start serves until ctx is cancelled, then shuts the listener down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Status server listening", "port", s.cfg.Port)
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down status server", "error", err)
		return err
	}
	slog.Info("Status server stopped")
	return nil
}
