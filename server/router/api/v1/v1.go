// Package v1 exposes the HTTP API: the inbound message webhook plus the
// read and configuration surfaces consumed by the dashboard.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/answerdesk/answerdesk/assist/analytics"
	"github.com/answerdesk/answerdesk/assist/knowledge"
	"github.com/answerdesk/answerdesk/assist/orchestrator"
	"github.com/answerdesk/answerdesk/assist/personality"
	"github.com/answerdesk/answerdesk/assist/provider"
	"github.com/answerdesk/answerdesk/internal/profile"
	"github.com/answerdesk/answerdesk/server/middleware"
	"github.com/answerdesk/answerdesk/store"
)

// APIV1Service wires the pipeline components into HTTP handlers.
type APIV1Service struct {
	Profile      *profile.Profile
	Store        *store.Store
	Orchestrator *orchestrator.Orchestrator
	Sink         *analytics.ChannelSink
	Health       *provider.HealthRegistry
	Profiles     *personality.Registry
	Knowledge    knowledge.Service
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(
	p *profile.Profile,
	s *store.Store,
	orch *orchestrator.Orchestrator,
	sink *analytics.ChannelSink,
	health *provider.HealthRegistry,
	profiles *personality.Registry,
	kb knowledge.Service,
) *APIV1Service {
	return &APIV1Service{
		Profile:      p,
		Store:        s,
		Orchestrator: orch,
		Sink:         sink,
		Health:       health,
		Profiles:     profiles,
		Knowledge:    kb,
	}
}

// RegisterRoutes mounts the API under /api/v1 with tenant auth and rate
// limiting applied.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	auth := middleware.TenantAuth(middleware.AuthConfig{
		Secret:        s.Profile.JWTSecret,
		AllowInsecure: s.Profile.Mode != "prod",
	})
	rateLimit := middleware.TenantRateLimit(middleware.NewRateLimiter(s.Profile.RateLimitPerMinute))

	g := e.Group("/api/v1", auth, rateLimit)

	g.POST("/messages", s.HandleMessage)
	g.GET("/providers/health", s.GetProviderHealth)
	g.GET("/analytics/summary", s.GetAnalyticsSummary)
	g.GET("/analytics/events", s.ListAnalyticsEvents)
	g.GET("/personality", s.GetPersonality)
	g.PUT("/personality", s.UpdatePersonality)
	g.POST("/personality/questionnaire", s.ApplyQuestionnaire)
	g.GET("/knowledge", s.ListKnowledge)
	g.PUT("/knowledge/:topic", s.UpsertKnowledge)
	g.POST("/knowledge/refresh", s.RefreshKnowledge)
	g.GET("/events/stream", s.StreamEvents)
}
