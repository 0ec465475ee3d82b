package personality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngine_Apply_Deterministic(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneFriendly,
		Formality:      FormalityFormal,
		ResponseLength: LengthMedium,
		EmotionalTone:  EmotionalEmpathetic,
		Language:       "en",
	}

	text := "We can't ship today. Your order will arrive tomorrow."
	first := e.Apply(text, profile)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Apply(text, profile))
	}
}

func TestEngine_Apply_EmpathyPrefix(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneFriendly,
		ResponseLength: LengthMedium,
		EmotionalTone:  EmotionalEmpathetic,
		Language:       "en",
	}

	got := e.Apply("Your order is on the way.", profile)
	assert.Contains(t, got, "I completely understand your concern.")

	t.Run("NeverStacks", func(t *testing.T) {
		twice := e.Apply(got, profile)
		assert.Equal(t, 1, strings.Count(twice, "I completely understand your concern."))
	})

	t.Run("RecognizesGeneratedMarker", func(t *testing.T) {
		// Provider already produced an acknowledgment; no second opener.
		got := e.Apply("I'm sorry to hear that. Your order is on the way.", profile)
		assert.NotContains(t, got, "I completely understand your concern.")
	})
}

func TestEngine_Apply_ExclamationCap(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneFriendly,
		ResponseLength: LengthLong,
		EmotionalTone:  EmotionalEnthusiastic,
		Language:       "en",
	}

	text := "Wow!!! Amazing!! So good!! Really!! Incredible!!"
	styled := e.Apply(text, profile)
	assert.LessOrEqual(t, strings.Count(styled, "!"), MaxExclamations)

	// Repeated application must not grow the marker count.
	for i := 0; i < 10; i++ {
		styled = e.Apply(styled, profile)
	}
	assert.LessOrEqual(t, strings.Count(styled, "!"), MaxExclamations)
}

func TestEngine_Apply_FriendlyEnding(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneFriendly,
		ResponseLength: LengthMedium,
		EmotionalTone:  EmotionalNeutral,
		Language:       "en",
	}

	got := e.Apply("Your refund has been processed.", profile)
	assert.True(t, strings.HasSuffix(got, "!"), "friendly tone should end with !, got %q", got)
}

func TestEngine_Apply_ProfessionalEnding(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneProfessional,
		ResponseLength: LengthMedium,
		EmotionalTone:  EmotionalNeutral,
		Language:       "en",
	}

	got := e.Apply("Your refund has been processed!", profile)
	assert.True(t, strings.HasSuffix(got, "."), "professional tone should end with ., got %q", got)
}

func TestEngine_Apply_FormalExpandsContractions(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneProfessional,
		Formality:      FormalityFormal,
		ResponseLength: LengthMedium,
		EmotionalTone:  EmotionalNeutral,
		Language:       "en",
	}

	got := e.Apply("We can't find it. It's not in stock.", profile)
	assert.NotContains(t, got, "can't")
	assert.NotContains(t, got, "It's")
	assert.Contains(t, got, "cannot")
	assert.Contains(t, got, "It is")
}

func TestEngine_Apply_ShortLength(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneProfessional,
		ResponseLength: LengthShort,
		EmotionalTone:  EmotionalNeutral,
		Language:       "en",
	}

	got := e.Apply("First. Second. Third. Fourth.", profile)
	assert.Equal(t, "First. Second.", got)

	t.Run("IdempotentWithPrefix", func(t *testing.T) {
		profile := &Profile{
			Tone:           ToneProfessional,
			ResponseLength: LengthShort,
			EmotionalTone:  EmotionalEmpathetic,
			Language:       "en",
		}
		once := e.Apply("First. Second. Third.", profile)
		assert.Equal(t, once, e.Apply(once, profile))
	})
}

func TestEngine_Apply_LanguageFallback(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneFriendly,
		ResponseLength: LengthMedium,
		EmotionalTone:  EmotionalEmpathetic,
		Language:       "fr", // not configured
	}

	// Falls back to the default language pack rather than failing.
	got := e.Apply("Your order is on the way.", profile)
	assert.Contains(t, got, languagePacks[DefaultLanguage].EmpathyPrefixes[0])
}

func TestEngine_Apply_ConfiguredLanguage(t *testing.T) {
	e := NewEngine()
	profile := &Profile{
		Tone:           ToneFriendly,
		ResponseLength: LengthMedium,
		EmotionalTone:  EmotionalEmpathetic,
		Language:       "es",
	}

	got := e.Apply("Tu pedido está en camino.", profile)
	assert.Contains(t, got, "Entiendo completamente tu preocupación.")
}

func TestEngine_Apply_EmptyText(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, "", e.Apply("", Default()))
}
