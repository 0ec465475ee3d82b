package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Validate(t *testing.T) {
	t.Run("DefaultsApplied", func(t *testing.T) {
		p := &Profile{Mode: "dev", Data: t.TempDir()}
		require.NoError(t, p.Validate())

		assert.Equal(t, "sqlite", p.Driver)
		assert.Contains(t, p.DSN, "answerdesk_dev.db")
		assert.Equal(t, 20, p.ContextWindowSize)
		assert.Equal(t, 2*time.Hour, p.ContextIdleTTL)
		assert.Equal(t, 5*time.Minute, p.KnowledgeStaleTTL)
		assert.Equal(t, 60, p.RateLimitPerMinute)
	})

	t.Run("UnknownModeFallsBackToDemo", func(t *testing.T) {
		p := &Profile{Mode: "staging", Data: t.TempDir()}
		require.NoError(t, p.Validate())
		assert.Equal(t, "demo", p.Mode)
	})

	t.Run("ProdRequiresJWTSecret", func(t *testing.T) {
		p := &Profile{Mode: "prod", Data: t.TempDir()}
		assert.Error(t, p.Validate())

		p.JWTSecret = "secret"
		assert.NoError(t, p.Validate())
	})

	t.Run("MissingDataDirFails", func(t *testing.T) {
		p := &Profile{Mode: "dev", Data: "/nonexistent/answerdesk-test"}
		assert.Error(t, p.Validate())
	})
}

func TestProfile_FromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		p := &Profile{}
		p.FromEnv()

		assert.Equal(t, "deepseek,openai", p.LLMPriority)
		assert.Equal(t, "https://api.deepseek.com", p.DeepSeekBaseURL)
		assert.Equal(t, "deepseek-chat", p.DeepSeekModel)
		assert.Equal(t, "https://api.openai.com/v1", p.OpenAIBaseURL)
	})

	t.Run("EnvOverride", func(t *testing.T) {
		t.Setenv("ANSWERDESK_LLM_PRIORITY", "openai,ollama")
		t.Setenv("ANSWERDESK_OPENAI_API_KEY", "sk-test")

		p := &Profile{}
		p.FromEnv()

		assert.Equal(t, "openai,ollama", p.LLMPriority)
		assert.Equal(t, "sk-test", p.OpenAIAPIKey)
	})
}

func TestProfile_PriorityList(t *testing.T) {
	p := &Profile{LLMPriority: "deepseek, openai ,ollama,"}
	assert.Equal(t, []string{"deepseek", "openai", "ollama"}, p.PriorityList())
}
