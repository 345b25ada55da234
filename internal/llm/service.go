package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"nubit-transcribe/backend/internal/metrics"
)

type Service struct {
	Router  *Router
	Cache   ResultCache
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

func NewService(router *Router, cache ResultCache, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{Router: router, Cache: cache, Metrics: m, Logger: logger}
}

// Analyze produces an analysis in the requested mode. Only ModeRemote can
// fail on provider errors; ModeAuto falls back to the local engine.
func (s *Service) Analyze(ctx context.Context, transcript string, mode Mode) (*Outcome, error) {
	start := time.Now()
	if mode == ModeLocal {
		outcome := localOutcome(transcript, "")
		s.Metrics.ObserveAnalysis(string(SourceLocal), outcome.Provider, start)
		return outcome, nil
	}

	key := s.cacheKey(ctx, transcript)
	if key != "" {
		if outcome, err := s.Cache.Get(ctx, key); err == nil {
			outcome.Cached = true
			return outcome, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			s.Logger.Warn().Err(err).Msg("analysis cache read failed")
		}
	}

	result, err := s.Router.AnalyzeRemote(ctx, transcript)
	if err != nil {
		if mode == ModeRemote {
			return nil, err
		}
		if !errors.Is(err, ErrNoProviders) {
			s.Logger.Warn().Err(err).Msg("remote analysis failed, using local engine")
		}
		outcome := localOutcome(transcript, err.Error())
		s.Metrics.ObserveAnalysis(string(SourceLocal), outcome.Provider, start)
		return outcome, nil
	}

	outcome := remoteOutcome(result)
	s.Metrics.ObserveAnalysis(string(SourceRemote), outcome.Provider, start)
	s.Logger.Debug().
		Str("provider", outcome.Provider).
		Str("model", outcome.Model).
		Dur("latency", time.Since(start)).
		Msg("remote analysis")
	if key != "" {
		if err := s.Cache.Set(ctx, key, outcome); err != nil {
			s.Logger.Warn().Err(err).Msg("analysis cache write failed")
		}
	}
	return outcome, nil
}

// Complete forwards a raw prompt to the first provider that answers.
func (s *Service) Complete(ctx context.Context, prompt string) (*AnalysisResult, error) {
	return s.Router.Complete(ctx, prompt)
}

func (s *Service) cacheKey(ctx context.Context, transcript string) string {
	if s.Cache == nil {
		return ""
	}
	chain, err := s.Router.Chain(ctx)
	if err != nil || len(chain) == 0 {
		return ""
	}
	return CacheKey(chain, transcript)
}
