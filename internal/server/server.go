package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/api"
	"github.com/yasserrrr2025/rasd2/internal/app"
)

// Server HTTP server
type Server struct {
	router *gin.Engine
	app    *app.App
	api    *api.Handler
	http   *http.Server
}

// NewServer builds the router over an assembled app
func NewServer(a *app.App) *Server {
	if !a.Config.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	h := api.NewHandler(a.State, a.Importer, apiOptions(a))

	s := &Server{
		router: gin.New(),
		app:    a,
		api:    h,
	}
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setupRoutes()
	return s
}

func apiOptions(a *app.App) api.Options {
	opts := api.Options{ExportDir: a.ExportDir(), Logger: a.Log.Named("api")}
	if a.Store != nil {
		opts.Logs = a.Store
	}
	return opts
}

// setupRoutes middleware, API and metrics
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(s.app.Log.Named("http")), s.app.Metrics.Middleware())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}
	s.router.GET("/metrics", s.app.Metrics.Handler())
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if s.app.Config.Server.DevMode {
		// frontend dev server
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Handler the root handler, for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until Shutdown
func (s *Server) Run(addr string) error {
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
