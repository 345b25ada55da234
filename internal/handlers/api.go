package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"nubit-transcribe/backend/internal/config"
	"nubit-transcribe/backend/internal/jobs"
	"nubit-transcribe/backend/internal/llm"
	"nubit-transcribe/backend/internal/metrics"
	"nubit-transcribe/backend/internal/realtime"
	"nubit-transcribe/backend/internal/transcribe"
)

// Analyzer is satisfied by *llm.Service.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string, mode llm.Mode) (*llm.Outcome, error)
	Complete(ctx context.Context, prompt string) (*llm.AnalysisResult, error)
}

// JobManager is satisfied by *jobs.Manager.
type JobManager interface {
	Submit(ctx context.Context, filename, language string, mode llm.Mode, analyze bool, media []byte) (*jobs.Job, error)
	Get(ctx context.Context, id string) (*jobs.Job, error)
}

type API struct {
	Config      config.Config
	Transcriber transcribe.Backend
	Analyzer    Analyzer
	Monitor     *llm.HealthMonitor
	Jobs        JobManager
	Hub         *realtime.Hub
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// Error codes returned in the error body.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidFormat    = "INVALID_FILE_FORMAT"
	CodeUnsupportedLang  = "UNSUPPORTED_LANGUAGE"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeTranscription    = "TRANSCRIPTION_FAILED"
	CodeAnalysis         = "ANALYSIS_FAILED"
	CodeNoProvider       = "NO_PROVIDER"
	CodeRateLimited      = "RATE_LIMITED"
	CodeNotFound         = "NOT_FOUND"
	CodeJobsDisabled     = "JOBS_DISABLED"
	CodeJobNotReady      = "JOB_NOT_READY"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL_ERROR"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes {"error": {"code", "message", "details"}}.
func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, map[string]ErrorBody{
		"error": {Code: code, Message: message, Details: details},
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	WriteError(w, status, code, message, nil)
}

func readJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
