package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nubit-transcribe/backend/internal/llm"
)

func (a *API) LLMStatus(w http.ResponseWriter, r *http.Request) {
	statuses := llm.KeyStatuses(a.Config)
	if a.Monitor != nil {
		statuses = a.Monitor.Annotate(statuses)
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": statuses})
}

// LLMTest sends the text straight to the provider chain and returns the raw
// reply.
func (a *API) LLMTest(w http.ResponseWriter, r *http.Request) {
	req, ok := a.readText(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()
	result, err := a.Analyzer.Complete(ctx, req.Text)
	if err != nil {
		if errors.Is(err, llm.ErrNoProviders) {
			writeError(w, http.StatusServiceUnavailable, CodeNoProvider, err.Error())
			return
		}
		WriteError(w, http.StatusBadGateway, CodeAnalysis, "Provider call failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
