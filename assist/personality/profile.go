// Package personality implements the tenant personality profile and the
// deterministic styling engine applied to generated replies.
package personality

import (
	"github.com/pkg/errors"
)

// Tone controls the overall voice of replies.
type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
)

// Formality controls contraction expansion and address style.
type Formality string

const (
	FormalityFormal  Formality = "formal"
	FormalityNeutral Formality = "neutral"
	FormalityCasual  Formality = "casual"
)

// ResponseLength bounds how much of the generated text is kept.
type ResponseLength string

const (
	LengthShort  ResponseLength = "short"
	LengthMedium ResponseLength = "medium"
	LengthLong   ResponseLength = "long"
)

// EmotionalTone controls acknowledgment phrasing.
type EmotionalTone string

const (
	EmotionalEmpathetic   EmotionalTone = "empathetic"
	EmotionalEnthusiastic EmotionalTone = "enthusiastic"
	EmotionalCalm         EmotionalTone = "calm"
	EmotionalNeutral      EmotionalTone = "neutral"
)

// CommunicationStyle controls prompt-side verbosity instructions.
type CommunicationStyle string

const (
	StyleConcise  CommunicationStyle = "concise"
	StyleDetailed CommunicationStyle = "detailed"
)

// Profile is an immutable snapshot of a tenant's reply personality.
// A snapshot loaded at the start of a request must be used for the whole
// request, including the analytics event recorded for it.
type Profile struct {
	Tone               Tone               `json:"tone"`
	Formality          Formality          `json:"formality"`
	Industry           string             `json:"industry"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`
	ResponseLength     ResponseLength     `json:"response_length"`
	EmotionalTone      EmotionalTone      `json:"emotional_tone"`
	CustomInstructions string             `json:"custom_instructions"`
	Language           string             `json:"language"`
	UpdatedTs          int64              `json:"updated_ts"`
}

// Default returns the system default profile used when a tenant has no
// valid profile configured.
func Default() *Profile {
	return &Profile{
		Tone:               ToneProfessional,
		Formality:          FormalityNeutral,
		CommunicationStyle: StyleConcise,
		ResponseLength:     LengthMedium,
		EmotionalTone:      EmotionalNeutral,
		Language:           DefaultLanguage,
	}
}

// Validate checks that required fields are present and recognized.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New("profile is nil")
	}
	switch p.Tone {
	case ToneFriendly, ToneProfessional, ToneCasual:
	default:
		return errors.Errorf("unknown tone: %q", p.Tone)
	}
	switch p.ResponseLength {
	case LengthShort, LengthMedium, LengthLong:
	default:
		return errors.Errorf("unknown response length: %q", p.ResponseLength)
	}
	if p.Language == "" {
		return errors.New("language is required")
	}
	return nil
}

// questionnaire answer -> profile field lookup tables. The mapping is
// declarative; unrecognized answers fall back to defaults.
var (
	toneByAnswer = map[string]Tone{
		"warm_and_friendly":  ToneFriendly,
		"strictly_business":  ToneProfessional,
		"relaxed_and_casual": ToneCasual,
	}
	formalityByAnswer = map[string]Formality{
		"formal_address": FormalityFormal,
		"no_preference":  FormalityNeutral,
		"first_names":    FormalityCasual,
	}
	lengthByAnswer = map[string]ResponseLength{
		"short_and_direct": LengthShort,
		"balanced":         LengthMedium,
		"detailed":         LengthLong,
	}
	emotionByAnswer = map[string]EmotionalTone{
		"show_empathy":  EmotionalEmpathetic,
		"high_energy":   EmotionalEnthusiastic,
		"stay_calm":     EmotionalCalm,
		"keep_it_plain": EmotionalNeutral,
	}
	styleByAnswer = map[string]CommunicationStyle{
		"to_the_point": StyleConcise,
		"explain_more": StyleDetailed,
	}
)

// FromQuestionnaire maps onboarding questionnaire answers to a profile.
// It is a fixed declarative mapping; no inference is involved.
func FromQuestionnaire(answers map[string]string) *Profile {
	p := Default()

	if tone, ok := toneByAnswer[answers["customer_tone"]]; ok {
		p.Tone = tone
	}
	if formality, ok := formalityByAnswer[answers["address_style"]]; ok {
		p.Formality = formality
	}
	if length, ok := lengthByAnswer[answers["message_length"]]; ok {
		p.ResponseLength = length
	}
	if emotion, ok := emotionByAnswer[answers["emotional_style"]]; ok {
		p.EmotionalTone = emotion
	}
	if style, ok := styleByAnswer[answers["reply_style"]]; ok {
		p.CommunicationStyle = style
	}
	if industry := answers["business_type"]; industry != "" {
		p.Industry = industry
	}
	if lang := answers["language"]; lang != "" {
		p.Language = lang
	}
	if custom := answers["custom_instructions"]; custom != "" {
		p.CustomInstructions = custom
	}

	return p
}
