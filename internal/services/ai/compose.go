// File: internal/services/ai/compose.go
package ai

import (
	"sort"
	"strings"

	"github.com/iyunix/go-chatpal/internal/domain"
)

// Placeholder tokens recognized in prompt templates. Both are supported;
// they are substituted in this fixed order, first occurrence only.
const (
	placeholderPrimary = "{user_prompt}"
	placeholderAlt     = "{prompt}"

	// appendLabel separates template text from the user's message when the
	// template carries no placeholder.
	appendLabel = "User message:"
)

// ApplyTemplate merges the user's raw message with a reusable prompt template.
// This is a one-shot deterministic string transform: no templating language,
// no loops, no recursive expansion.
func ApplyTemplate(userText, templateText string) string {
	if templateText == "" {
		return userText
	}

	if strings.Contains(templateText, placeholderPrimary) {
		return strings.Replace(templateText, placeholderPrimary, userText, 1)
	}
	if strings.Contains(templateText, placeholderAlt) {
		return strings.Replace(templateText, placeholderAlt, userText, 1)
	}

	// No placeholder: template first, user text after a blank line.
	var b strings.Builder
	b.WriteString(templateText)
	b.WriteString("\n\n")
	b.WriteString(appendLabel)
	b.WriteString(" ")
	b.WriteString(userText)
	return b.String()
}

// BuildContext maps the most recent persisted messages of a session to
// provider turns in chronological (oldest-first) order. The caller's slice is
// never mutated; limit bounds how many of the newest messages are kept.
func BuildContext(recent []domain.Message, limit int) []Turn {
	if len(recent) == 0 || limit <= 0 {
		return nil
	}

	sorted := make([]domain.Message, len(recent))
	copy(sorted, recent)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}

	turns := make([]Turn, 0, len(sorted))
	for _, m := range sorted {
		role := domain.RoleAssistant
		if m.IsUserMessage() {
			role = domain.RoleUser
		}
		turns = append(turns, Turn{Role: role, Content: m.Content})
	}
	return turns
}
