// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pagination_backend/internal/catalog"
	"pagination_backend/internal/common"
	"pagination_backend/internal/config"
	"pagination_backend/internal/jobs"
	"pagination_backend/internal/middleware"
	"pagination_backend/internal/paging"
	platformElasticsearch "pagination_backend/internal/platform/elasticsearch"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config

	// Exposed for startup tasks run by main.
	AppLogger *zap.Logger
	ESClient  *platformElasticsearch.ESClientWrapper

	catalogHandler *catalog.Handler
	reindexJob     *jobs.CatalogReindexJob
}

// NewURLBuilder provides the builder that renders pagination links. Routes
// register their paths on it during NewServer.
func NewURLBuilder(cfg *config.Config) *paging.PathBuilder {
	return paging.NewPathBuilder(cfg.URLBasePath)
}

// NewPagingDefaults provides the service-wide pagination defaults.
func NewPagingDefaults(cfg *config.Config) paging.Defaults {
	return paging.Defaults{
		Size: cfg.PageDefaultSize,
		Sort: cfg.PageDefaultSort,
		Dir:  cfg.PageDefaultDir,
	}
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	urls *paging.PathBuilder,
	defaults paging.Defaults,
	catalogHandler *catalog.Handler,
	reindexJob *jobs.CatalogReindexJob,
	esClient *platformElasticsearch.ESClientWrapper,
) (*Server, error) {
	if err := common.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register request validators: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(paging.Middleware(urls, defaults))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "UP",
			"message":        "Pagination API is healthy!",
			"search_enabled": esClient != nil,
		})
	})

	v1 := router.Group("/api/v1")
	catalogHandler.RegisterRoutes(v1, urls)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:     httpServer,
		router:         router,
		cfg:            cfg,
		AppLogger:      logger,
		ESClient:       esClient,
		catalogHandler: catalogHandler,
		reindexJob:     reindexJob,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	switch {
	case s.reindexJob == nil:
		s.AppLogger.Info("Catalog reindex job is not configured, skipping start.")
	case s.ESClient == nil:
		s.AppLogger.Info("Search is disabled, catalog reindex job will not run.")
	default:
		if err := s.reindexJob.SetupAndStart(); err != nil {
			s.AppLogger.Error("Failed to setup and start catalog reindex job", zap.Error(err))
		}
	}

	s.AppLogger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.AppLogger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.AppLogger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.AppLogger.Info("Attempting graceful server shutdown...")
	if s.reindexJob != nil {
		s.reindexJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
