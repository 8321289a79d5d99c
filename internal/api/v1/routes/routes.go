package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobregv/interventionweb-whisper/internal/api/v1/handlers"
	"github.com/jobregv/interventionweb-whisper/internal/api/v1/services"
)

// ServiceContainer holds the services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	MaxFileSize          int64
}

// RegisterRoutes registers the API routes. The transcription endpoints live
// at the root, matching what submitting backends already call.
func RegisterRoutes(router *gin.Engine, container *ServiceContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(
		container.TranscriptionService,
		container.MaxFileSize,
	)

	router.POST("/transcribe", transcriptionHandler.Submit)
	router.GET("/result/:job_id", transcriptionHandler.Result)
	router.GET("/health", transcriptionHandler.Health)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
