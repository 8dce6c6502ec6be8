package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"space-missions/services"
	"space-missions/utils"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the query layer over HTTP.
type Server struct {
	queries *services.QueryService
	metrics *Metrics
	logger  *utils.Logger
	engine  *gin.Engine
}

// NewServer builds the gin engine and registers every route.
func NewServer(queries *services.QueryService, logger *utils.Logger) *Server {
	s := &Server{
		queries: queries,
		metrics: NewMetrics(),
		logger:  logger,
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.metrics.Middleware(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.engine.Group("/v1")
	{
		v1.GET("/companies/top", s.topCompanies)
		v1.GET("/companies/:company/missions", s.companyMissions)
		v1.GET("/companies/:company/success-rate", s.companySuccessRate)
		v1.GET("/missions", s.missionsByDateRange)
		v1.GET("/statuses", s.statusCount)
		v1.GET("/years/average", s.averagePerYear)
		v1.GET("/years/:year/missions", s.yearMissions)
		v1.GET("/rockets/most-used", s.mostUsedRocket)
		v1.GET("/summary", s.summary)
		v1.GET("/export.csv", s.exportCSV)
		v1.POST("/reload", s.reload)
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[api] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api: listen %s: %w", addr, err)
	case <-ctx.Done():
		s.logger.Info("[api] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("[api] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
