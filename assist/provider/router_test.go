package provider

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/answerdesk/answerdesk/internal/errors"
)

func newTestRouter(providers ...Provider) *Router {
	return NewRouter(RouterConfig{
		Providers:      providers,
		AttemptTimeout: 100 * time.Millisecond,
	})
}

func TestRouter_Generate_FirstCandidateWins(t *testing.T) {
	first := NewMockProvider("first", "reply from first")
	second := NewMockProvider("second", "reply from second")
	r := newTestRouter(first, second)

	got, err := r.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "reply from first", got.Text)
	assert.Equal(t, "first", got.Provider)
	assert.False(t, got.Fallback)
	assert.Equal(t, 0, second.CallCount())
}

func TestRouter_Generate_FailsOverToNext(t *testing.T) {
	first := NewMockProvider("first", "")
	first.Err = errors.New("upstream 503")
	second := NewMockProvider("second", "reply from second")
	r := newTestRouter(first, second)

	got, err := r.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "reply from second", got.Text)
	assert.Equal(t, "second", got.Provider)

	// The failed attempt updated health synchronously.
	assert.Equal(t, 1, r.Registry().Get("first").ConsecutiveFailures)
	assert.Equal(t, StatusHealthy, r.Registry().Get("second").Status)
}

func TestRouter_Generate_AllFailReturnsCannedFallback(t *testing.T) {
	first := NewMockProvider("first", "")
	first.Err = errors.New("down")
	second := NewMockProvider("second", "")
	second.Err = errors.New("down")
	r := newTestRouter(first, second)

	got, err := r.Generate(context.Background(), GenerateRequest{})
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrCodeAllProvidersExhausted))
	assert.Equal(t, FallbackReply, got.Text)
	assert.Equal(t, FallbackProviderName, got.Provider)
	assert.True(t, got.Fallback)
	assert.NotEmpty(t, got.Text)
}

func TestRouter_Generate_TimeoutCountsAsFailure(t *testing.T) {
	slow := NewMockProvider("slow", "too late")
	slow.Delay = time.Second
	fast := NewMockProvider("fast", "fast reply")
	r := newTestRouter(slow, fast)

	start := time.Now()
	got, err := r.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "fast reply", got.Text)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, r.Registry().Get("slow").ConsecutiveFailures)
}

func TestRouter_Generate_ParentCancelDoesNotBlameProvider(t *testing.T) {
	slow := NewMockProvider("slow", "too late")
	slow.Delay = 50 * time.Millisecond
	r := newTestRouter(slow)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	got, err := r.Generate(ctx, GenerateRequest{})
	require.Error(t, err)
	assert.True(t, got.Fallback)

	health := r.Registry().Get("slow")
	assert.Equal(t, 0, health.ConsecutiveFailures)
	assert.Equal(t, StatusHealthy, health.Status)
}

func TestRouter_Generate_SkipsDownWhileHealthyExists(t *testing.T) {
	bad := NewMockProvider("bad", "")
	bad.Err = errors.New("down")
	good := NewMockProvider("good", "ok")
	r := newTestRouter(bad, good)

	// Drive "bad" into down state.
	for i := 0; i < DownThreshold; i++ {
		r.Registry().ReportFailure("bad")
	}
	require.Equal(t, StatusDown, r.Registry().Get("bad").Status)

	badCallsBefore := bad.CallCount()
	got, err := r.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "good", got.Provider)
	// The healthy candidate was tried first, so the down provider was
	// never called on this request.
	assert.Equal(t, badCallsBefore, bad.CallCount())
}

func TestRouter_Generate_SuccessResetsFailures(t *testing.T) {
	flaky := NewMockProvider("flaky", "")
	flaky.Err = errors.New("boom")
	backup := NewMockProvider("backup", "from backup")
	r := newTestRouter(flaky, backup)

	_, err := r.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, r.Registry().Get("flaky").ConsecutiveFailures)

	flaky.SetErr(nil)
	flaky.Reply = "recovered"

	// flaky has 1 failure so backup (0 failures) is tried first now; make
	// backup fail once to push the router back to flaky.
	backup.SetErr(errors.New("hiccup"))
	got, err := r.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", got.Text)
	assert.Equal(t, 0, r.Registry().Get("flaky").ConsecutiveFailures)
	assert.Equal(t, StatusHealthy, r.Registry().Get("flaky").Status)
}

func TestRouter_Generate_EmptyCompletionIsFailure(t *testing.T) {
	empty := NewMockProvider("empty", "")
	backup := NewMockProvider("backup", "real reply")
	r := newTestRouter(empty, backup)

	got, err := r.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "real reply", got.Text)
	assert.Equal(t, 1, r.Registry().Get("empty").ConsecutiveFailures)
}

func TestRouter_Generate_Deterministic(t *testing.T) {
	// Two runs over identical mock configurations produce identical
	// provider selection, because ties resolve by configured order.
	for run := 0; run < 2; run++ {
		a := NewMockProvider("a", "reply a")
		b := NewMockProvider("b", "reply b")
		r := newTestRouter(a, b)

		got, err := r.Generate(context.Background(), GenerateRequest{})
		require.NoError(t, err)
		assert.Equal(t, "a", got.Provider)
	}
}
