package contextstore

import (
	"fmt"
	"strings"

	"github.com/answerdesk/answerdesk/assist/classify"
)

// MaxSummaryBytes caps the rolling summary. Oldest clauses are dropped
// first when the cap is exceeded.
const MaxSummaryBytes = 512

// Folder compresses evicted turns into the rolling summary. The folding
// heuristic is a policy choice, kept behind this interface so it can be
// swapped without touching the store.
type Folder interface {
	// Fold merges the evicted turns into the existing summary and
	// returns the new summary, bounded by MaxSummaryBytes.
	Fold(summary string, evicted []Turn) string
}

// TemplateFolder folds each evicted turn into a short templated clause:
// "<role> <intent> (<emotion>)". Clauses are joined with "; ". Consecutive
// identical clauses collapse into one.
type TemplateFolder struct{}

// NewTemplateFolder creates the default folder.
func NewTemplateFolder() *TemplateFolder {
	return &TemplateFolder{}
}

func (f *TemplateFolder) Fold(summary string, evicted []Turn) string {
	if len(evicted) == 0 {
		return summary
	}

	var clauses []string
	if summary != "" {
		clauses = strings.Split(summary, "; ")
	}
	for _, turn := range evicted {
		clause := foldClause(turn)
		if len(clauses) > 0 && clauses[len(clauses)-1] == clause {
			continue
		}
		clauses = append(clauses, clause)
	}

	out := strings.Join(clauses, "; ")
	for len(out) > MaxSummaryBytes && len(clauses) > 1 {
		clauses = clauses[1:]
		out = strings.Join(clauses, "; ")
	}
	if len(out) > MaxSummaryBytes {
		out = out[:MaxSummaryBytes]
	}
	return out
}

func foldClause(turn Turn) string {
	intent := turn.Intent
	if intent == "" {
		intent = classify.IntentUnknown
	}
	emotion := turn.Emotion
	if emotion == "" {
		emotion = classify.EmotionNeutral
	}
	return fmt.Sprintf("%s %s (%s)", turn.Role, intent, emotion)
}

// Ensure TemplateFolder implements Folder
var _ Folder = (*TemplateFolder)(nil)
