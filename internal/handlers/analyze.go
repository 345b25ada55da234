package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"nubit-transcribe/backend/internal/analysis"
	"nubit-transcribe/backend/internal/llm"
)

const maxTextBytes = 5 << 20

type analyzeRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

func (a *API) readText(w http.ResponseWriter, r *http.Request) (*analyzeRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTextBytes)
	var req analyzeRequest
	if err := readJSON(r, &req); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, "text is too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid request")
		return nil, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "text is required")
		return nil, false
	}
	return &req, true
}

func (a *API) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := a.readText(w, r)
	if !ok {
		return
	}
	mode, err := llm.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Minute)
	defer cancel()
	outcome, err := a.Analyzer.Analyze(ctx, req.Text, mode)
	if err != nil {
		if errors.Is(err, llm.ErrNoProviders) {
			writeError(w, http.StatusServiceUnavailable, CodeNoProvider, err.Error())
			return
		}
		WriteError(w, http.StatusBadGateway, CodeAnalysis, "Analysis failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type localResponse struct {
	Report   *analysis.Report `json:"report"`
	Markdown string           `json:"markdown"`
}

func (a *API) AnalyzeLocal(w http.ResponseWriter, r *http.Request) {
	req, ok := a.readText(w, r)
	if !ok {
		return
	}
	start := time.Now()
	report := analysis.Analyze(req.Text)
	a.Metrics.ObserveAnalysis(string(llm.SourceLocal), "local", start)
	writeJSON(w, http.StatusOK, localResponse{Report: report, Markdown: analysis.RenderMarkdown(report)})
}
