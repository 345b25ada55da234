package handlers

import (
	"net/http"

	"nubit-transcribe/backend/internal/transcribe"
)

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"jobs":   a.Jobs != nil,
	})
}

func (a *API) Meta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formats":          transcribe.Formats,
		"languages":        transcribe.Languages,
		"default_language": a.Config.TranscribeLanguage,
		"max_upload_bytes": a.Config.MaxUploadBytes,
		"backend":          a.Transcriber.Name(),
	})
}
