package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nubit-transcribe/backend/internal/llm"
	"nubit-transcribe/backend/internal/transcribe"
)

const defaultMaxUpload = 100 << 20

type upload struct {
	Filename string
	Language string
	Mode     llm.Mode
	Analyze  bool
	Data     []byte
}

// readUpload parses the multipart form shared by /transcribe and /jobs and
// writes the error response itself when it returns false.
func (a *API) readUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	limit := a.Config.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if isTooLarge(err) {
			WriteError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, "File is too large", map[string]int64{"max_bytes": limit})
			return nil, false
		}
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "expected a multipart form with a file field")
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "file is required")
		return nil, false
	}
	defer file.Close()
	if header.Size > limit {
		WriteError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, "File is too large", map[string]int64{"max_bytes": limit})
		return nil, false
	}

	language := strings.ToLower(strings.TrimSpace(r.FormValue("language")))
	if language == "" {
		language = a.Config.TranscribeLanguage
	}
	if err := transcribe.Validate(header.Filename, language); err != nil {
		writeValidationError(w, err)
		return nil, false
	}
	mode, err := llm.ParseMode(r.FormValue("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return nil, false
	}
	analyze, _ := strconv.ParseBool(r.FormValue("analyze"))

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "could not read file")
		return nil, false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "file is empty")
		return nil, false
	}
	return &upload{Filename: header.Filename, Language: language, Mode: mode, Analyze: analyze, Data: data}, true
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transcribe.ErrUnsupportedFormat):
		WriteError(w, http.StatusBadRequest, CodeInvalidFormat, err.Error(), map[string]any{"supported": transcribe.Formats})
	case errors.Is(err, transcribe.ErrUnsupportedLanguage):
		WriteError(w, http.StatusBadRequest, CodeUnsupportedLang, err.Error(), map[string]any{"supported": transcribe.Languages})
	default:
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	}
}

type transcribeResponse struct {
	Text     string       `json:"text"`
	Language string       `json:"language"`
	Backend  string       `json:"backend"`
	Duration float64      `json:"duration_seconds,omitempty"`
	Analysis *llm.Outcome `json:"analysis,omitempty"`
}

func (a *API) Transcribe(w http.ResponseWriter, r *http.Request) {
	up, ok := a.readUpload(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	start := time.Now()
	transcript, err := a.Transcriber.Transcribe(ctx, transcribe.Request{
		Filename: up.Filename,
		Language: up.Language,
		Body:     bytes.NewReader(up.Data),
	})
	a.Metrics.ObserveTranscription(a.Transcriber.Name(), err, start)
	if err != nil {
		a.Logger.Warn().Err(err).Str("file", up.Filename).Msg("transcription failed")
		if errors.Is(err, transcribe.ErrEmptyTranscript) {
			writeError(w, http.StatusBadGateway, CodeTranscription, "No result returned.")
			return
		}
		WriteError(w, http.StatusBadGateway, CodeTranscription, "Transcription failed", err.Error())
		return
	}

	resp := transcribeResponse{
		Text:     transcript.Text,
		Language: transcript.Language,
		Backend:  transcript.Backend,
		Duration: transcript.Duration.Seconds(),
	}
	if up.Analyze {
		outcome, err := a.Analyzer.Analyze(ctx, transcript.Text, up.Mode)
		if err != nil {
			WriteError(w, http.StatusBadGateway, CodeAnalysis, "Analysis failed", err.Error())
			return
		}
		resp.Analysis = outcome
	}
	writeJSON(w, http.StatusOK, resp)
}
