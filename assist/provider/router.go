package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/answerdesk/answerdesk/assist/timeout"
	apierrors "github.com/answerdesk/answerdesk/internal/errors"
)

// FallbackReply is the deterministic canned reply returned when every
// provider fails. The conversation always receives a response.
const FallbackReply = "Thank you for your message! We are looking into it and will get back to you as soon as possible."

// FallbackProviderName is recorded in results produced without a provider.
const FallbackProviderName = "fallback"

// Router selects a provider per request and executes the call with a
// bounded timeout and failover across all configured providers.
type Router struct {
	providers      map[string]Provider
	priority       []string
	registry       *HealthRegistry
	attemptTimeout time.Duration
}

// RouterConfig configures the provider router.
type RouterConfig struct {
	// Providers in explicit priority order; earlier entries win health ties.
	Providers []Provider
	Registry  *HealthRegistry
	// AttemptTimeout bounds a single provider call (default: timeout.ProviderAttempt).
	AttemptTimeout time.Duration
}

// NewRouter creates a new provider router.
func NewRouter(cfg RouterConfig) *Router {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = timeout.ProviderAttempt
	}

	providers := make(map[string]Provider, len(cfg.Providers))
	priority := make([]string, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		providers[p.Name()] = p
		priority = append(priority, p.Name())
	}

	registry := cfg.Registry
	if registry == nil {
		registry = NewHealthRegistry(priority)
	}

	return &Router{
		providers:      providers,
		priority:       priority,
		registry:       registry,
		attemptTimeout: cfg.AttemptTimeout,
	}
}

// Registry returns the health registry shared with dashboard readers.
func (r *Router) Registry() *HealthRegistry {
	return r.registry
}

// Generate routes the request to the best candidate and fails over on
// error. Every attempt updates provider health synchronously before the
// next selection. When all providers fail the canned fallback reply is
// returned together with an ALL_PROVIDERS_EXHAUSTED error; the result text
// is always non-empty.
func (r *Router) Generate(ctx context.Context, req GenerateRequest) (Result, error) {
	start := time.Now()
	attempts := 0

	for _, name := range r.registry.Candidates(r.priority) {
		if ctx.Err() != nil {
			break
		}

		p, ok := r.providers[name]
		if !ok {
			continue
		}
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
		attemptStart := time.Now()
		text, err := p.Generate(attemptCtx, req)
		latencyMs := time.Since(attemptStart).Milliseconds()
		cancel()

		if err != nil || text == "" {
			if ctx.Err() != nil {
				// The parent context expired or was canceled mid-attempt;
				// the provider's health record takes no blame.
				break
			}
			if err == nil {
				err = apierrors.InvalidArgument("provider returned empty completion")
			}
			r.registry.ReportFailure(name)
			slog.Warn("provider attempt failed, trying next candidate",
				"provider", name,
				"latency_ms", latencyMs,
				"error", err)
			continue
		}

		r.registry.ReportSuccess(name, latencyMs)
		return Result{
			Text:      text,
			Provider:  name,
			LatencyMs: latencyMs,
		}, nil
	}

	totalMs := time.Since(start).Milliseconds()
	slog.Warn("all providers exhausted, returning canned fallback",
		"attempts", attempts,
		"latency_ms", totalMs)

	return Result{
		Text:      FallbackReply,
		Provider:  FallbackProviderName,
		LatencyMs: totalMs,
		Fallback:  true,
	}, apierrors.AllProvidersExhausted(attempts)
}
