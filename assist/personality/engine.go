package personality

import (
	"log/slog"
	"strings"
)

const (
	// MaxExclamations caps the number of exclamation marks in a styled reply
	// so repeated application never compounds enthusiasm markers.
	MaxExclamations = 3

	// shortSentenceLimit is the number of body sentences kept for short
	// response length.
	shortSentenceLimit = 2
)

// Engine applies a personality profile to generated reply text. Apply is a
// pure function: no I/O, deterministic for identical inputs, and bounded
// under accidental re-application.
type Engine struct{}

// NewEngine creates a new personality engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Apply transforms base text according to the profile. The transformation
// order is fixed: formality, length, emotional prefix, tone ending,
// exclamation cap.
func (e *Engine) Apply(text string, profile *Profile) string {
	if text == "" || profile == nil {
		return text
	}

	pack := e.packFor(profile.Language)

	styled := text
	if profile.Formality == FormalityFormal {
		styled = expandContractions(styled)
	}
	if profile.ResponseLength == LengthShort {
		styled = truncateSentences(styled, shortSentenceLimit, pack)
	}
	styled = e.applyEmotionalTone(styled, profile.EmotionalTone, pack)
	styled = e.applyToneEnding(styled, profile.Tone)
	styled = capExclamations(styled, MaxExclamations)

	return styled
}

// packFor resolves the template pack for a language, falling back to the
// default language. The fallback is a degraded but successful outcome.
func (e *Engine) packFor(language string) languagePack {
	if pack, ok := languagePacks[language]; ok {
		return pack
	}
	slog.Warn("language pack not configured, falling back to default",
		"language", language,
		"fallback", DefaultLanguage)
	return languagePacks[DefaultLanguage]
}

// applyEmotionalTone prepends the acknowledgment opener for the configured
// emotional tone. An already-present marker is never stacked.
func (e *Engine) applyEmotionalTone(text string, tone EmotionalTone, pack languagePack) string {
	switch tone {
	case EmotionalEmpathetic:
		for _, prefix := range pack.EmpathyPrefixes {
			if strings.Contains(text, prefix) {
				return text
			}
		}
		return pack.EmpathyPrefixes[0] + " " + text
	case EmotionalEnthusiastic:
		if strings.HasPrefix(text, pack.EnthusiasmPrefix) {
			return text
		}
		return pack.EnthusiasmPrefix + " " + text
	case EmotionalCalm:
		if strings.HasPrefix(text, pack.CalmPrefix) {
			return text
		}
		return pack.CalmPrefix + " " + text
	default:
		return text
	}
}

// applyToneEnding adjusts the terminal punctuation for the tone.
func (e *Engine) applyToneEnding(text string, tone Tone) string {
	trimmed := strings.TrimRight(text, " ")
	if trimmed == "" {
		return text
	}
	switch tone {
	case ToneFriendly:
		if strings.HasSuffix(trimmed, ".") {
			return strings.TrimSuffix(trimmed, ".") + "!"
		}
	case ToneProfessional:
		if strings.HasSuffix(trimmed, "!") {
			return strings.TrimRight(trimmed, "!") + "."
		}
	}
	return trimmed
}

// expandContractions rewrites contractions to their formal equivalents.
func expandContractions(text string) string {
	for _, pair := range contractionPairs {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}
	return text
}

// truncateSentences keeps at most limit sentences of the body. A recognized
// emotional opener is not counted, so truncation composes with the prefix
// step under re-application.
func truncateSentences(text string, limit int, pack languagePack) string {
	prefix := ""
	body := text
	openers := append([]string{}, pack.EmpathyPrefixes...)
	openers = append(openers, pack.EnthusiasmPrefix, pack.CalmPrefix)
	for _, opener := range openers {
		if opener != "" && strings.HasPrefix(body, opener+" ") {
			prefix = opener + " "
			body = strings.TrimPrefix(body, opener+" ")
			break
		}
	}

	count := 0
	end := len(body)
	for i, r := range body {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count >= limit {
				end = i + 1
				break
			}
		}
	}

	return prefix + strings.TrimRight(body[:end], " ")
}

// capExclamations collapses runs of exclamation marks and converts any
// beyond the cap into periods.
func capExclamations(text string, limit int) string {
	var b strings.Builder
	b.Grow(len(text))

	count := 0
	prevExclaim := false
	for _, r := range text {
		if r != '!' {
			b.WriteRune(r)
			prevExclaim = false
			continue
		}
		if prevExclaim {
			continue // collapse the run
		}
		prevExclaim = true
		count++
		if count > limit {
			b.WriteRune('.')
		} else {
			b.WriteRune('!')
		}
	}
	return b.String()
}
