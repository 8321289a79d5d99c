package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobregv/interventionweb-whisper/internal/api/errors"
	"github.com/jobregv/interventionweb-whisper/internal/api/middleware"
	"github.com/jobregv/interventionweb-whisper/internal/api/v1/dto"
	"github.com/jobregv/interventionweb-whisper/internal/api/v1/services"
)

// TranscriptionHandler handles the transcription API endpoints
type TranscriptionHandler struct {
	service     services.TranscriptionService
	maxFileSize int64
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService, maxFileSize int64) *TranscriptionHandler {
	return &TranscriptionHandler{
		service:     service,
		maxFileSize: maxFileSize,
	}
}

// Submit handles POST /transcribe
// Accepts an audio file and queues it for asynchronous transcription
//
// @Summary Submit audio for transcription
// @Description Queues an audio file for asynchronous transcription. Returns immediately; poll /result/{job_id} or supply a callback URL.
// @Tags transcription
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file (wav, webm, ogg, mp3, flac)"
// @Param job_id formData string false "Caller-supplied job ID (UUID generated when absent)"
// @Param callback_url formData string false "URL to POST the result to on completion"
// @Param callback_token formData string false "Bearer token for the callback request"
// @Success 200 {object} dto.SubmitResponse "Job queued"
// @Failure 400 {object} errors.APIError "Missing or non-audio file"
// @Failure 413 {object} errors.APIError "File exceeds the size limit"
// @Failure 422 {object} errors.APIError "Invalid form fields"
// @Failure 503 {object} errors.APIError "Queue or store unavailable"
// @Router /transcribe [post]
func (h *TranscriptionHandler) Submit(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("No audio file uploaded"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") {
		middleware.HandleError(c, errors.NewBadRequestError(
			fmt.Sprintf("File must be audio, got %s", contentType)))
		return
	}

	if header.Size > h.maxFileSize {
		middleware.HandleError(c, errors.NewPayloadTooLargeError(
			fmt.Sprintf("File too large: %d bytes (max %d)", header.Size, h.maxFileSize)))
		return
	}

	var form dto.SubmitForm
	if err := middleware.ValidateForm(c, &form); err != nil {
		middleware.HandleError(c, err)
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("Failed to read uploaded file"))
		return
	}
	if int64(len(audio)) > h.maxFileSize {
		middleware.HandleError(c, errors.NewPayloadTooLargeError(
			fmt.Sprintf("File too large (max %d bytes)", h.maxFileSize)))
		return
	}

	response, err := h.service.Submit(c.Request.Context(), audio, &form)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Result handles GET /result/:job_id
// Returns the current status or final result of a job
//
// @Summary Get job status or result
// @Description Returns the job's status. Completed jobs include the transcription; failed jobs include the error. Unknown or expired IDs return status "unknown".
// @Tags transcription
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} dto.ResultResponse "Current job state"
// @Failure 503 {object} errors.APIError "Result store unavailable"
// @Router /result/{job_id} [get]
func (h *TranscriptionHandler) Result(c *gin.Context) {
	jobID := c.Param("job_id")

	response, err := h.service.Result(c.Request.Context(), jobID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Health handles GET /health
// Reports queue connectivity and active configuration
//
// @Summary Service health
// @Description Reports Redis connectivity, worker liveness, queue depth and the active transcription configuration.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} errors.APIError "Redis unreachable"
// @Router /health [get]
func (h *TranscriptionHandler) Health(c *gin.Context) {
	response, err := h.service.Health(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
