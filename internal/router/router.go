package router

import (
	"net/http"
	"strings"

	"nubit-transcribe/backend/internal/handlers"
	"nubit-transcribe/backend/internal/middleware"
)

const jobsPrefix = "/api/v1/jobs/"

type Router struct {
	api     *handlers.API
	limiter *middleware.RateLimiter
	origin  string
	metrics http.Handler
	proxies *middleware.ProxyTrust
}

func New(api *handlers.API, limiter *middleware.RateLimiter, proxies *middleware.ProxyTrust, origin string, metrics http.Handler) *Router {
	return &Router{api: api, limiter: limiter, proxies: proxies, origin: origin, metrics: metrics}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if middleware.HandleCORS(w, r, rt.origin) {
		return
	}
	middleware.SecurityHeaders(w)

	path := cleanPath(r.URL.Path)

	if rt.limiter != nil && strings.HasPrefix(path, "/api/v1/") {
		if ok, wait := rt.limiter.Reserve(rt.proxies.ClientKey(r)); !ok {
			w.Header().Set("Retry-After", middleware.RetryAfter(wait))
			handlers.WriteError(w, http.StatusTooManyRequests, handlers.CodeRateLimited, "rate limit exceeded", nil)
			return
		}
	}

	switch {
	case path == "/healthz":
		rt.serve(w, r, http.MethodGet, rt.api.Health)
		return
	case path == "/metrics" && rt.metrics != nil:
		rt.serve(w, r, http.MethodGet, rt.metrics.ServeHTTP)
		return
	case path == "/api/v1/meta":
		rt.serve(w, r, http.MethodGet, rt.api.Meta)
		return
	case path == "/api/v1/transcribe":
		rt.serve(w, r, http.MethodPost, rt.api.Transcribe)
		return
	case path == "/api/v1/analyze":
		rt.serve(w, r, http.MethodPost, rt.api.Analyze)
		return
	case path == "/api/v1/analyze/local":
		rt.serve(w, r, http.MethodPost, rt.api.AnalyzeLocal)
		return
	case path == "/api/v1/llm/status":
		rt.serve(w, r, http.MethodGet, rt.api.LLMStatus)
		return
	case path == "/api/v1/llm/test":
		rt.serve(w, r, http.MethodPost, rt.api.LLMTest)
		return
	case path == "/api/v1/jobs":
		rt.serve(w, r, http.MethodPost, rt.api.CreateJob)
		return
	case strings.HasPrefix(path, jobsPrefix):
		segments := strings.Split(strings.TrimPrefix(path, jobsPrefix), "/")
		if segments[0] == "" {
			break
		}
		id := segments[0]
		switch {
		case len(segments) == 1:
			rt.serve(w, r, http.MethodGet, func(w http.ResponseWriter, r *http.Request) { rt.api.GetJob(w, r, id) })
			return
		case len(segments) == 2 && segments[1] == "transcript.txt":
			rt.serve(w, r, http.MethodGet, func(w http.ResponseWriter, r *http.Request) { rt.api.JobTranscript(w, r, id) })
			return
		}
	case path == "/api/v1/ws":
		rt.serve(w, r, http.MethodGet, rt.api.JobEvents)
		return
	}

	handlers.WriteError(w, http.StatusNotFound, handlers.CodeNotFound, "not found", nil)
}

// serve runs handler when the method matches and answers 405 otherwise.
func (rt *Router) serve(w http.ResponseWriter, r *http.Request, method string, handler http.HandlerFunc) {
	if r.Method != method {
		w.Header().Set("Allow", method+", "+http.MethodOptions)
		handlers.WriteError(w, http.StatusMethodNotAllowed, handlers.CodeMethodNotAllowed, "method not allowed", nil)
		return
	}
	handler(w, r)
}

// Route collapses job IDs so metrics labels stay bounded.
func Route(r *http.Request) string {
	path := cleanPath(r.URL.Path)
	if strings.HasPrefix(path, jobsPrefix) {
		if strings.HasSuffix(path, "/transcript.txt") {
			return jobsPrefix + "{id}/transcript.txt"
		}
		return jobsPrefix + "{id}"
	}
	switch path {
	case "/healthz", "/metrics", "/api/v1/meta", "/api/v1/transcribe", "/api/v1/analyze",
		"/api/v1/analyze/local", "/api/v1/llm/status", "/api/v1/llm/test", "/api/v1/jobs", "/api/v1/ws":
		return path
	}
	return "other"
}

func cleanPath(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "/"
	}
	return path
}
