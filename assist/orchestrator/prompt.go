package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/answerdesk/answerdesk/assist/classify"
	"github.com/answerdesk/answerdesk/assist/contextstore"
	"github.com/answerdesk/answerdesk/assist/personality"
	"github.com/answerdesk/answerdesk/assist/provider"
	"github.com/answerdesk/answerdesk/store"
)

// historyLimit bounds how many recent turns are replayed into the prompt.
const historyLimit = 10

// buildMessages assembles the provider request: a system prompt derived
// from the personality profile, knowledge facts, and conversation memory,
// followed by the recent turn history and the inbound message.
func buildMessages(
	profile *personality.Profile,
	facts []*store.KnowledgeItem,
	conv *contextstore.Conversation,
	message string,
	cls classify.Classification,
) []provider.Message {
	messages := []provider.Message{
		provider.SystemMessage(buildSystemPrompt(profile, facts, conv, cls)),
	}

	if conv != nil {
		turns := conv.Turns
		if len(turns) > historyLimit {
			turns = turns[len(turns)-historyLimit:]
		}
		for _, turn := range turns {
			switch turn.Role {
			case contextstore.RoleAssistant:
				messages = append(messages, provider.AssistantMessage(turn.Text))
			default:
				messages = append(messages, provider.UserMessage(turn.Text))
			}
		}
	}

	return append(messages, provider.UserMessage(message))
}

func buildSystemPrompt(
	profile *personality.Profile,
	facts []*store.KnowledgeItem,
	conv *contextstore.Conversation,
	cls classify.Classification,
) string {
	var b strings.Builder

	b.WriteString("You are a customer service assistant answering on behalf of a business")
	if profile.Industry != "" {
		fmt.Fprintf(&b, " in the %s industry", profile.Industry)
	}
	b.WriteString(".\n")

	fmt.Fprintf(&b, "Voice: %s tone, %s formality", profile.Tone, profile.Formality)
	if profile.CommunicationStyle == personality.StyleDetailed {
		b.WriteString(", detailed explanations")
	} else {
		b.WriteString(", concise answers")
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Reply in language: %s.\n", profile.Language)
	if profile.CustomInstructions != "" {
		fmt.Fprintf(&b, "Business instructions: %s\n", profile.CustomInstructions)
	}

	if cls.Intent != "" && cls.Intent != classify.IntentUnknown {
		fmt.Fprintf(&b, "The customer's message looks like a %s request", cls.Intent)
		if cls.Emotion != "" && cls.Emotion != classify.EmotionNeutral {
			fmt.Fprintf(&b, " and they sound %s", cls.Emotion)
		}
		b.WriteString(".\n")
	}

	if len(facts) > 0 {
		b.WriteString("Relevant business facts:\n")
		for _, fact := range facts {
			fmt.Fprintf(&b, "- %s: %s\n", fact.Topic, fact.Value)
		}
	}

	if conv != nil {
		if conv.Summary != "" {
			fmt.Fprintf(&b, "Earlier conversation summary: %s\n", conv.Summary)
		}
		if len(conv.Preferences) > 0 {
			b.WriteString("Known customer preferences:\n")
			for _, k := range sortedKeys(conv.Preferences) {
				fmt.Fprintf(&b, "- %s: %s\n", k, conv.Preferences[k])
			}
		}
	}

	b.WriteString("Never invent order numbers, prices, or policies not given above.")
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
