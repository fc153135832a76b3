// Package api exposes the coach over JSON HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abhisek/satcoach/internal/coach"
)

// Server serves the v1 API.
type Server struct {
	coach *coach.Service
	log   *slog.Logger
	echo  *echo.Echo
}

// New builds the echo router for svc.
func New(svc *coach.Service, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{coach: svc, log: log, echo: e}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group("/api/v1")
	g.Use(middleware.CORS())

	g.GET("/catalog", s.GetCatalog)
	g.POST("/score", s.ScoreSession)

	g.POST("/learners", s.CreateLearner)
	g.GET("/learners", s.ListLearners)
	g.GET("/learners/:id", s.GetLearner)
	g.PUT("/learners/:id/goal", s.SetGoal)

	g.POST("/learners/:id/answers", s.SubmitAnswer)
	g.POST("/learners/:id/practice", s.RecordPractice)
	g.POST("/learners/:id/lessons", s.CompleteLesson)

	g.GET("/learners/:id/dashboard", s.GetDashboard)
	g.GET("/learners/:id/recommendations", s.GetRecommendations)
	g.GET("/learners/:id/plan", s.GetPlan)
	g.GET("/learners/:id/estimate", s.GetEstimate)
	g.GET("/learners/:id/reviews/due", s.GetDueReviews)
	g.GET("/learners/:id/readiness", s.GetReadiness)

	return s
}

// ServeHTTP lets the server be mounted or tested as a plain handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("api listening", "addr", addr)
		errc <- s.echo.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
