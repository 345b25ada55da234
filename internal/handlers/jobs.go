package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"nubit-transcribe/backend/internal/jobs"
	"nubit-transcribe/backend/internal/realtime"
)

func (a *API) jobsEnabled(w http.ResponseWriter) bool {
	if a.Jobs == nil {
		writeError(w, http.StatusServiceUnavailable, CodeJobsDisabled, "background jobs need REDIS_URL")
		return false
	}
	return true
}

func (a *API) CreateJob(w http.ResponseWriter, r *http.Request) {
	if !a.jobsEnabled(w) {
		return
	}
	up, ok := a.readUpload(w, r)
	if !ok {
		return
	}
	job, err := a.Jobs.Submit(r.Context(), up.Filename, up.Language, up.Mode, up.Analyze, up.Data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("submit job")
		writeError(w, http.StatusInternalServerError, CodeInternal, "could not queue job")
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (a *API) loadJob(w http.ResponseWriter, r *http.Request, id string) (*jobs.Job, bool) {
	if !a.jobsEnabled(w) {
		return nil, false
	}
	job, err := a.Jobs.Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		writeError(w, http.StatusNotFound, CodeNotFound, "job not found")
		return nil, false
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", id).Msg("load job")
		writeError(w, http.StatusInternalServerError, CodeInternal, "could not load job")
		return nil, false
	}
	return job, true
}

func (a *API) GetJob(w http.ResponseWriter, r *http.Request, id string) {
	job, ok := a.loadJob(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (a *API) JobTranscript(w http.ResponseWriter, r *http.Request, id string) {
	job, ok := a.loadJob(w, r, id)
	if !ok {
		return
	}
	if job.Transcript == "" {
		WriteError(w, http.StatusConflict, CodeJobNotReady, "transcript not available yet", map[string]any{"status": job.Status})
		return
	}
	name := strings.TrimSuffix(filepath.Base(job.Filename), filepath.Ext(job.Filename))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"_transcript.txt"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(job.Transcript))
}

// JobEvents streams the job's events over a websocket, starting with its
// current state.
func (a *API) JobEvents(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("job")
	if id == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "job query parameter is required")
		return
	}
	job, ok := a.loadJob(w, r, id)
	if !ok {
		return
	}
	realtime.ServeWS(w, r, a.Hub, job.ID, func() any {
		if latest, err := a.Jobs.Get(r.Context(), job.ID); err == nil {
			job = latest
		}
		return jobs.EventFor(job)
	})
}
