package personality

// DefaultLanguage is the fallback language when a profile requests a
// language without a configured template pack.
const DefaultLanguage = "en"

// languagePack holds the language-specific phrases the engine injects.
type languagePack struct {
	// EmpathyPrefixes are acknowledgment openers for empathetic profiles.
	// The first entry is the canonical one; the rest are recognized as
	// already-present markers so re-application never stacks prefixes.
	EmpathyPrefixes []string
	// EnthusiasmPrefix opens replies for enthusiastic profiles.
	EnthusiasmPrefix string
	// CalmPrefix opens replies for calm profiles.
	CalmPrefix string
}

var languagePacks = map[string]languagePack{
	"en": {
		EmpathyPrefixes: []string{
			"I completely understand your concern.",
			"I understand how you feel.",
			"I'm sorry to hear that.",
		},
		EnthusiasmPrefix: "Great news!",
		CalmPrefix:       "Rest assured,",
	},
	"es": {
		EmpathyPrefixes: []string{
			"Entiendo completamente tu preocupación.",
			"Entiendo cómo te sientes.",
			"Lamento mucho escuchar eso.",
		},
		EnthusiasmPrefix: "¡Buenas noticias!",
		CalmPrefix:       "No te preocupes,",
	},
	"pt": {
		EmpathyPrefixes: []string{
			"Entendo completamente a sua preocupação.",
			"Entendo como você se sente.",
			"Lamento muito ouvir isso.",
		},
		EnthusiasmPrefix: "Ótimas notícias!",
		CalmPrefix:       "Fique tranquilo,",
	},
	"id": {
		EmpathyPrefixes: []string{
			"Saya sangat memahami kekhawatiran Anda.",
			"Saya mengerti perasaan Anda.",
			"Mohon maaf atas ketidaknyamanannya.",
		},
		EnthusiasmPrefix: "Kabar baik!",
		CalmPrefix:       "Jangan khawatir,",
	},
}

// contractionPairs expands contractions for formal profiles. Applied as
// literal replacements; expansion is idempotent.
var contractionPairs = [][2]string{
	{"can't", "cannot"},
	{"Can't", "Cannot"},
	{"won't", "will not"},
	{"Won't", "Will not"},
	{"don't", "do not"},
	{"Don't", "Do not"},
	{"didn't", "did not"},
	{"isn't", "is not"},
	{"aren't", "are not"},
	{"it's", "it is"},
	{"It's", "It is"},
	{"I'm", "I am"},
	{"we're", "we are"},
	{"We're", "We are"},
	{"we'll", "we will"},
	{"We'll", "We will"},
	{"you're", "you are"},
	{"You're", "You are"},
	{"you'll", "you will"},
	{"that's", "that is"},
	{"That's", "That is"},
}
