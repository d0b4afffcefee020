// ABOUTME: HTTP boundary for UI clients over the nutrition tracker.
// ABOUTME: gin routes wrapped in CORS, with request logging and graceful shutdown.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/harperreed/nutrition/internal/tracker"
)

// Server serves the tracker over HTTP.
type Server struct {
	tracker *tracker.Tracker
	logger  *log.Logger
	engine  *gin.Engine
}

// NewServer builds the router for tr.
func NewServer(tr *tracker.Tracker, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		tracker: tr,
		logger:  logger.WithPrefix("http"),
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes(s.engine)
	return s
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.engine)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/state", s.getState)
	api.GET("/categories", s.listCategories)
	api.POST("/categories", s.addCategory)
	api.DELETE("/categories/:ref", s.deleteCategory)
	api.GET("/consumptions", s.getHistory)
	api.POST("/consumptions", s.addConsumption)
	api.POST("/validate", s.validateIntake)
	api.GET("/weekly", s.getWeekly)
	api.GET("/trend", s.getTrend)
	api.PUT("/targets", s.updateTargets)
	api.POST("/reset", s.resetDaily)
	api.GET("/reminders", s.getReminders)
	api.PUT("/reminders", s.updateReminders)
	api.GET("/events", s.streamEvents)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
