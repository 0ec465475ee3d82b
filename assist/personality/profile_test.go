package personality

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/answerdesk/answerdesk/internal/errors"
)

func TestFromQuestionnaire(t *testing.T) {
	t.Run("FullAnswers", func(t *testing.T) {
		p := FromQuestionnaire(map[string]string{
			"customer_tone":   "warm_and_friendly",
			"address_style":   "formal_address",
			"message_length":  "short_and_direct",
			"emotional_style": "show_empathy",
			"reply_style":     "to_the_point",
			"business_type":   "retail",
			"language":        "es",
		})

		assert.Equal(t, ToneFriendly, p.Tone)
		assert.Equal(t, FormalityFormal, p.Formality)
		assert.Equal(t, LengthShort, p.ResponseLength)
		assert.Equal(t, EmotionalEmpathetic, p.EmotionalTone)
		assert.Equal(t, StyleConcise, p.CommunicationStyle)
		assert.Equal(t, "retail", p.Industry)
		assert.Equal(t, "es", p.Language)
		assert.NoError(t, p.Validate())
	})

	t.Run("EmptyAnswersYieldDefaults", func(t *testing.T) {
		p := FromQuestionnaire(map[string]string{})
		assert.Equal(t, Default(), p)
	})

	t.Run("UnknownAnswersIgnored", func(t *testing.T) {
		p := FromQuestionnaire(map[string]string{
			"customer_tone": "sarcastic", // not in the lookup table
		})
		assert.Equal(t, Default().Tone, p.Tone)
	})

	t.Run("Deterministic", func(t *testing.T) {
		answers := map[string]string{
			"customer_tone":   "relaxed_and_casual",
			"emotional_style": "high_energy",
		}
		assert.Equal(t, FromQuestionnaire(answers), FromQuestionnaire(answers))
	})
}

func TestProfile_Validate(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("MissingTone", func(t *testing.T) {
		p := Default()
		p.Tone = ""
		assert.Error(t, p.Validate())
	})

	t.Run("MissingLanguage", func(t *testing.T) {
		p := Default()
		p.Language = ""
		assert.Error(t, p.Validate())
	})

	t.Run("Nil", func(t *testing.T) {
		var p *Profile
		assert.Error(t, p.Validate())
	})
}

func TestRegistry_UpdateAndSnapshot(t *testing.T) {
	r := NewRegistry()

	t.Run("UnknownTenantGetsDefault", func(t *testing.T) {
		assert.Equal(t, Default(), r.Snapshot("t-unknown"))
	})

	t.Run("LatestWins", func(t *testing.T) {
		first := Default()
		first.Tone = ToneFriendly
		require.NoError(t, r.Update("t1", first))

		second := Default()
		second.Tone = ToneCasual
		require.NoError(t, r.Update("t1", second))

		got := r.Snapshot("t1")
		assert.Equal(t, ToneCasual, got.Tone)
		assert.NotZero(t, got.UpdatedTs)
	})

	t.Run("InvalidKeepsLastKnownGood", func(t *testing.T) {
		good := Default()
		good.Tone = ToneProfessional
		require.NoError(t, r.Update("t2", good))

		bad := Default()
		bad.Language = ""
		err := r.Update("t2", bad)
		require.Error(t, err)
		assert.True(t, apierrors.IsCode(err, apierrors.ErrCodeInvalidProfile))

		assert.Equal(t, ToneProfessional, r.Snapshot("t2").Tone)
	})

	t.Run("SnapshotIsolatedFromCallerMutation", func(t *testing.T) {
		p := Default()
		require.NoError(t, r.Update("t3", p))
		p.Tone = ToneCasual // mutate after update

		assert.Equal(t, Default().Tone, r.Snapshot("t3").Tone)
	})
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p := Default()
			p.Tone = ToneFriendly
			_ = r.Update("tenant", p)
		}()
		go func() {
			defer wg.Done()
			// Snapshot must always be fully formed, never a partial write.
			got := r.Snapshot("tenant")
			assert.NoError(t, got.Validate())
		}()
	}
	wg.Wait()
}
