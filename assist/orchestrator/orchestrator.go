// Package orchestrator coordinates the per-message pipeline: classify the
// inbound message, load conversation memory and knowledge, call a provider,
// style the reply, persist the turns, and record the outcome.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/errgroup"

	"github.com/answerdesk/answerdesk/assist/analytics"
	"github.com/answerdesk/answerdesk/assist/classify"
	"github.com/answerdesk/answerdesk/assist/contextstore"
	"github.com/answerdesk/answerdesk/assist/knowledge"
	"github.com/answerdesk/answerdesk/assist/personality"
	"github.com/answerdesk/answerdesk/assist/provider"
	"github.com/answerdesk/answerdesk/assist/timeout"
	apierrors "github.com/answerdesk/answerdesk/internal/errors"
	"github.com/answerdesk/answerdesk/internal/observability"
	"github.com/answerdesk/answerdesk/store"
)

// State is the pipeline stage a request has reached.
type State string

const (
	StateReceived          State = "RECEIVED"
	StateContextLoaded     State = "CONTEXT_LOADED"
	StateKnowledgeEnriched State = "KNOWLEDGE_ENRICHED"
	StateProviderCalled    State = "PROVIDER_CALLED"
	StatePersonalized      State = "PERSONALIZED"
	StatePersisted         State = "PERSISTED"
	StateDone              State = "DONE"
	// StateFailedSafe is terminal: both conversation memory and every
	// provider failed. The caller still receives the static apology.
	StateFailedSafe State = "FAILED_SAFE"
)

// SafeReply is returned from the failed-safe terminal state. The caller
// always gets a reply, never an unhandled failure.
const SafeReply = "We are sorry, we cannot process your message right now. Please try again in a few minutes."

// Reply is the outcome of one orchestrated turn.
type Reply struct {
	Text     string
	Provider string
	// Fallback is true when the text is a canned reply rather than
	// generated output.
	Fallback bool
	Intent   classify.Intent
	Emotion  classify.Emotion
	State    State
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Classifier classify.Classifier
	Contexts   contextstore.Service
	Knowledge  knowledge.Service
	Router     *provider.Router
	Engine     *personality.Engine
	Profiles   *personality.Registry
	Sink       analytics.Sink
}

// Orchestrator runs the conversation pipeline. Requests for the same
// conversation are serialized; different conversations run in parallel.
type Orchestrator struct {
	classifier classify.Classifier
	contexts   contextstore.Service
	knowledge  knowledge.Service
	router     *provider.Router
	engine     *personality.Engine
	profiles   *personality.Registry
	sink       analytics.Sink

	locks *conversationLocks
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		classifier: cfg.Classifier,
		contexts:   cfg.Contexts,
		knowledge:  cfg.Knowledge,
		router:     cfg.Router,
		engine:     cfg.Engine,
		profiles:   cfg.Profiles,
		sink:       cfg.Sink,
		locks:      newConversationLocks(),
	}
}

// Handle processes one inbound customer message and returns the reply to
// send. It always returns a non-empty reply; the error, when non-nil,
// describes the degradation and carries a structured code.
func (o *Orchestrator) Handle(ctx context.Context, tenantID, conversationID, message string) (*Reply, error) {
	reqCtx := observability.NewRequestContext(slog.Default(), tenantID, conversationID)
	ctx = observability.WithRequestContext(ctx, reqCtx)

	key := contextstore.Key{TenantID: tenantID, ConversationID: conversationID}

	lockCtx, lockCancel := context.WithTimeout(ctx, timeout.LockWait)
	defer lockCancel()
	if err := o.locks.acquire(lockCtx, key); err != nil {
		reqCtx.Warn("conversation lock wait aborted",
			slog.String(observability.LogFieldState, string(StateReceived)))
		o.record(reqCtx, key,
			classify.Classification{Intent: classify.IntentUnknown, Emotion: classify.EmotionNeutral},
			provider.Result{}, o.profiles.Snapshot(tenantID), string(apierrors.ErrCodeTimeout))
		return &Reply{Text: SafeReply, Fallback: true, State: StateFailedSafe},
			apierrors.Timeout("conversation busy, lock wait aborted")
	}
	defer o.locks.release(key)

	// Once the lock is held the pipeline runs detached from the caller:
	// a disconnect must not abort an in-flight provider call or skip
	// persistence. The caller's context only decides below whether the
	// reply is still worth sending.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout.PipelineBudget)
	defer cancel()

	reply, err := o.run(runCtx, reqCtx, key, message)
	if ctx.Err() != nil {
		// The turn is persisted either way; the disconnected caller gets
		// the error so it discards the reply instead of sending it twice.
		return reply, apierrors.ContextCanceled(ctx.Err())
	}
	return reply, err
}

func (o *Orchestrator) run(ctx context.Context, reqCtx *observability.RequestContext, key contextstore.Key, message string) (*Reply, error) {
	state := StateReceived

	cls, err := o.classifier.Classify(ctx, message)
	if err != nil {
		// Classification is an enrichment, not a gate.
		reqCtx.Warn("classification failed, proceeding unclassified",
			slog.String("error", err.Error()))
		cls = classify.Classification{Intent: classify.IntentUnknown, Emotion: classify.EmotionNeutral}
	}

	// Memory and knowledge load in parallel; neither can fail the turn.
	var (
		conv  *contextstore.Conversation
		facts []*store.KnowledgeItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		conv = o.contexts.Get(gctx, key)
		return nil
	})
	g.Go(func() error {
		facts = o.knowledge.Lookup(gctx, key.TenantID, message)
		return nil
	})
	_ = g.Wait()

	contextDown := conv == nil
	if contextDown {
		reqCtx.Warn("context store unreachable, running memoryless",
			slog.String(observability.LogFieldErrorCode, string(apierrors.ErrCodeContextStoreUnavailable)))
	} else {
		state = StateContextLoaded
		reqCtx.Debug("context loaded",
			slog.String(observability.LogFieldState, string(state)),
			slog.Int("turns", len(conv.Turns)))
	}
	state = StateKnowledgeEnriched
	reqCtx.Debug("knowledge enriched",
		slog.String(observability.LogFieldState, string(state)),
		slog.Int("facts", len(facts)))

	// One profile snapshot serves the whole request: prompt, styling,
	// and the analytics event all see the same version.
	profile := o.profiles.Snapshot(key.TenantID)

	result, genErr := o.router.Generate(ctx, provider.GenerateRequest{
		Messages: buildMessages(profile, facts, conv, message, cls),
	})
	state = StateProviderCalled
	reqCtx.Debug("provider called",
		slog.String(observability.LogFieldState, string(state)),
		slog.String(observability.LogFieldProvider, result.Provider))

	if genErr != nil && contextDown {
		reply := &Reply{Text: SafeReply, Fallback: true, Intent: cls.Intent, Emotion: cls.Emotion, State: StateFailedSafe}
		o.record(reqCtx, key, cls, provider.Result{}, profile, string(apierrors.ErrCodeContextStoreUnavailable))
		reqCtx.Error("pipeline failed safe", genErr,
			slog.String(observability.LogFieldState, string(StateFailedSafe)))
		return reply, apierrors.Wrap(genErr, apierrors.ErrCodeContextStoreUnavailable, "context store and providers both unavailable")
	}

	text := result.Text
	if !result.Fallback {
		text = o.engine.Apply(text, profile)
	}
	state = StatePersonalized
	reqCtx.Debug("reply personalized",
		slog.String(observability.LogFieldState, string(state)))

	if !contextDown {
		o.persistTurns(ctx, key, message, text, cls)
		state = StatePersisted
		reqCtx.Debug("turns persisted",
			slog.String(observability.LogFieldState, string(state)))
	}

	errorCode := ""
	if genErr != nil {
		errorCode = string(apierrors.GetCodeFromError(genErr, apierrors.ErrCodeAllProvidersExhausted))
	}
	o.record(reqCtx, key, cls, result, profile, errorCode)
	state = StateDone

	reply := &Reply{
		Text:     text,
		Provider: result.Provider,
		Fallback: result.Fallback,
		Intent:   cls.Intent,
		Emotion:  cls.Emotion,
		State:    state,
	}

	reqCtx.Info("turn completed",
		slog.String(observability.LogFieldState, string(state)),
		slog.String(observability.LogFieldProvider, result.Provider),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
		slog.Bool("fallback", result.Fallback))

	return reply, genErr
}

// persistTurns appends the customer turn and the assistant turn. Runs on a
// detached context so a caller disconnect cannot leave memory half-updated.
func (o *Orchestrator) persistTurns(ctx context.Context, key contextstore.Key, message, replyText string, cls classify.Classification) {
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout.ContextStoreOp)
	defer cancel()

	now := time.Now().UnixMilli()
	o.contexts.AppendTurn(persistCtx, key, contextstore.Turn{
		ID:         shortuuid.New(),
		Role:       contextstore.RoleCustomer,
		Text:       message,
		Timestamp:  now,
		Intent:     cls.Intent,
		Emotion:    cls.Emotion,
		Confidence: float64(cls.IntentConfidence),
	})
	o.contexts.AppendTurn(persistCtx, key, contextstore.Turn{
		ID:        shortuuid.New(),
		Role:      contextstore.RoleAssistant,
		Text:      replyText,
		Timestamp: now,
	})
}

func (o *Orchestrator) record(reqCtx *observability.RequestContext, key contextstore.Key, cls classify.Classification, result provider.Result, profile *personality.Profile, errorCode string) {
	o.sink.Record(&analytics.Event{
		TenantID:         key.TenantID,
		ConversationID:   key.ConversationID,
		LatencyMs:        reqCtx.DurationMs(),
		Provider:         result.Provider,
		Success:          errorCode == "",
		Intent:           cls.Intent,
		Emotion:          cls.Emotion,
		ErrorCode:        errorCode,
		ProfileUpdatedTs: profile.UpdatedTs,
		CreatedAt:        time.Now(),
	})
}
