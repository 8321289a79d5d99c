package dto

// SubmitForm carries the non-file multipart fields of a submission.
type SubmitForm struct {
	JobID         string `form:"job_id" binding:"omitempty,max=128"`
	CallbackURL   string `form:"callback_url" binding:"omitempty,url"`
	CallbackToken string `form:"callback_token" binding:"omitempty,max=512"`
}

// SubmitResponse is returned by POST /transcribe once the job is queued.
type SubmitResponse struct {
	JobID             string  `json:"job_id"`
	Status            string  `json:"status"`
	Message           string  `json:"message"`
	FileSizeMB        float64 `json:"file_size_mb"`
	EstimatedDuration string  `json:"estimated_duration"`
}

// ResultResponse is returned by GET /result/:job_id. Transcription and Error
// are mutually exclusive; Length is set only for completed jobs.
type ResultResponse struct {
	JobID         string `json:"job_id"`
	Status        string `json:"status"`
	Transcription string `json:"transcription,omitempty"`
	Length        int    `json:"length,omitempty"`
	Error         string `json:"error,omitempty"`
	CompletedAt   string `json:"completed_at,omitempty"`
}

// HealthResponse is returned by GET /health. Workers is the configured pool
// size; ActiveWorkers counts workers with a live heartbeat.
type HealthResponse struct {
	Status        string       `json:"status"`
	Redis         string       `json:"redis"`
	Workers       int          `json:"workers"`
	ActiveWorkers int          `json:"active_workers"`
	Pending       int64        `json:"pending_jobs"`
	Config        HealthConfig `json:"config"`
}

// HealthConfig is the active-configuration snapshot embedded in health output.
type HealthConfig struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Device        string `json:"device"`
	Language      string `json:"language"`
	MaxFileSizeMB int64  `json:"max_file_size_mb"`
}
