package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/jobregv/interventionweb-whisper/docs" // Generated swagger docs
	"github.com/jobregv/interventionweb-whisper/internal/api/middleware"
	v1routes "github.com/jobregv/interventionweb-whisper/internal/api/v1/routes"
	"github.com/jobregv/interventionweb-whisper/internal/api/v1/services"
	"github.com/jobregv/interventionweb-whisper/internal/config"
)

// Server represents the API server
type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	transcriptionService services.TranscriptionService,
	logger *zap.Logger,
) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Multipart bodies above the limit are rejected by the handler with 413;
	// this caps what gin buffers in memory before spilling to disk.
	router.MaxMultipartMemory = 8 << 20

	container := &v1routes.ServiceContainer{
		TranscriptionService: transcriptionService,
		MaxFileSize:          cfg.MaxFileSize,
	}
	v1routes.RegisterRoutes(router, container)

	// Swagger documentation routes
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":       "Transcription Service API",
			"documentation": "/swagger/index.html",
			"endpoints": gin.H{
				"submit":  "POST /transcribe",
				"result":  "GET /result/{job_id}",
				"health":  "GET /health",
				"metrics": "GET /metrics",
			},
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.API.Host, cfg.API.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
		// No WriteTimeout: uploads of large audio files over slow links are
		// bounded by ReadTimeout per chunk, not a whole-request deadline.
		ReadTimeout: 5 * time.Minute,
		IdleTimeout: 2 * time.Minute,
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Start begins serving in a background goroutine. Fatal listen errors are
// reported on the returned channel.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	s.logger.Info("Starting API server",
		zap.String("address", s.httpServer.Addr),
		zap.String("environment", s.config.Environment),
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return errCh
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
