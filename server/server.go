// Package server assembles the conversation pipeline and serves the HTTP
// API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/answerdesk/answerdesk/assist/analytics"
	"github.com/answerdesk/answerdesk/assist/classify"
	"github.com/answerdesk/answerdesk/assist/contextstore"
	"github.com/answerdesk/answerdesk/assist/knowledge"
	"github.com/answerdesk/answerdesk/assist/orchestrator"
	"github.com/answerdesk/answerdesk/assist/personality"
	"github.com/answerdesk/answerdesk/assist/provider"
	"github.com/answerdesk/answerdesk/internal/profile"
	apiv1 "github.com/answerdesk/answerdesk/server/router/api/v1"
	"github.com/answerdesk/answerdesk/store"
)

// Server owns the HTTP surface and the pipeline components behind it.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo

	contexts  *contextstore.MemoryStore
	sink      *analytics.ChannelSink
	retention *analytics.Retention
	router    *provider.Router
}

// NewServer builds the pipeline from the runtime profile and mounts the
// API routes.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	providers, err := buildProviders(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build providers")
	}

	router := provider.NewRouter(provider.RouterConfig{Providers: providers})
	engine := personality.NewEngine()

	profiles := personality.NewRegistry()
	if err := loadTenantProfiles(ctx, st, profiles); err != nil {
		slog.Warn("failed to load persisted tenant profiles", "error", err)
	}

	kb := knowledge.NewCache(knowledge.CacheConfig{
		Source:   knowledge.NewStoreSource(st),
		StaleTTL: p.KnowledgeStaleTTL,
	})

	contexts := contextstore.NewMemoryStore(contextstore.MemoryStoreConfig{
		WindowSize: p.ContextWindowSize,
		Durable:    st,
	})
	contexts.StartEviction(time.Minute, p.ContextIdleTTL)

	sink := analytics.NewChannelSink(analytics.SinkConfig{Store: st})
	retention := analytics.NewRetention(st, sink, analytics.RetentionConfig{})
	retention.Start()

	orch := orchestrator.New(orchestrator.Config{
		Classifier: classify.NewRuleMatcher(),
		Contexts:   contexts,
		Knowledge:  kb,
		Router:     router,
		Engine:     engine,
		Profiles:   profiles,
		Sink:       sink,
	})

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORS())
	echoServer.Use(echomw.Gzip())

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiService := apiv1.NewAPIV1Service(p, st, orch, sink, router.Registry(), profiles, kb)
	apiService.RegisterRoutes(echoServer)

	return &Server{
		Profile:    p,
		Store:      st,
		echoServer: echoServer,
		contexts:   contexts,
		sink:       sink,
		retention:  retention,
		router:     router,
	}, nil
}

// Start serves the API until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)
	return s.echoServer.Start(address)
}

// Shutdown drains in-flight requests and stops the background loops.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	// Persist summaries for everything still in memory, then stop the
	// loops and flush pending analytics.
	s.contexts.EvictIdle(ctx, time.Now())
	s.contexts.Close()
	s.retention.Close()
	s.sink.Close()

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}

// buildProviders instantiates the configured providers in failover
// priority order.
func buildProviders(p *profile.Profile) ([]provider.Provider, error) {
	var providers []provider.Provider
	for _, name := range p.PriorityList() {
		var cfg provider.Config
		switch name {
		case "deepseek":
			if p.DeepSeekAPIKey == "" {
				slog.Warn("deepseek listed in priority but no api key configured, skipping")
				continue
			}
			cfg = provider.Config{Name: "deepseek", APIKey: p.DeepSeekAPIKey, BaseURL: p.DeepSeekBaseURL, Model: p.DeepSeekModel}
		case "openai":
			if p.OpenAIAPIKey == "" {
				slog.Warn("openai listed in priority but no api key configured, skipping")
				continue
			}
			cfg = provider.Config{Name: "openai", APIKey: p.OpenAIAPIKey, BaseURL: p.OpenAIBaseURL, Model: p.OpenAIModel}
		case "ollama":
			cfg = provider.Config{Name: "ollama", APIKey: "ollama", BaseURL: p.OllamaBaseURL, Model: p.OllamaModel}
		default:
			return nil, errors.Errorf("unknown provider in priority list: %q", name)
		}

		prov, err := provider.NewOpenAIProvider(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to configure provider %s", name)
		}
		providers = append(providers, prov)
	}
	if len(providers) == 0 {
		return nil, errors.New("no usable provider configured")
	}
	return providers, nil
}

// loadTenantProfiles rehydrates the personality registry from the store.
func loadTenantProfiles(ctx context.Context, st *store.Store, registry *personality.Registry) error {
	persisted, err := st.ListTenantProfiles(ctx, &store.FindTenantProfile{})
	if err != nil {
		return err
	}
	for _, tp := range persisted {
		var p personality.Profile
		if err := json.Unmarshal(tp.Payload, &p); err != nil {
			slog.Warn("skipping unreadable tenant profile", "tenant_id", tp.TenantID, "error", err)
			continue
		}
		if err := registry.Update(tp.TenantID, &p); err != nil {
			slog.Warn("skipping invalid tenant profile", "tenant_id", tp.TenantID, "error", err)
		}
	}
	slog.Info("tenant profiles loaded", "count", len(persisted))
	return nil
}
