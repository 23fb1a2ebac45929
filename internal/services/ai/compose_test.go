// File: internal/services/ai/compose_test.go
package ai

import (
	"testing"
	"time"

	"github.com/iyunix/go-chatpal/internal/domain"
)

func TestApplyTemplate(t *testing.T) {
	tests := []struct {
		name     string
		userText string
		template string
		want     string
	}{
		{
			name:     "primary placeholder",
			userText: "hello",
			template: "Answer this: {user_prompt}",
			want:     "Answer this: hello",
		},
		{
			name:     "alternate placeholder",
			userText: "hello",
			template: "Answer this: {prompt}",
			want:     "Answer this: hello",
		},
		{
			name:     "primary wins over alternate",
			userText: "hi",
			template: "{prompt} then {user_prompt}",
			want:     "{prompt} then hi",
		},
		{
			name:     "first occurrence only",
			userText: "x",
			template: "{user_prompt} and {user_prompt}",
			want:     "x and {user_prompt}",
		},
		{
			name:     "no placeholder appends user text",
			userText: "what is this?",
			template: "You are a terse assistant.",
			want:     "You are a terse assistant.\n\nUser message: what is this?",
		},
		{
			name:     "empty template passes through",
			userText: "raw message",
			template: "",
			want:     "raw message",
		},
		{
			name:     "empty user text with placeholder",
			userText: "",
			template: "Summarize: {user_prompt}",
			want:     "Summarize: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyTemplate(tt.userText, tt.template)
			if got != tt.want {
				t.Fatalf("ApplyTemplate() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestApplyTemplate_Deterministic(t *testing.T) {
	first := ApplyTemplate("same input", "Prefix {user_prompt} suffix")
	second := ApplyTemplate("same input", "Prefix {user_prompt} suffix")
	if first != second {
		t.Fatalf("ApplyTemplate not deterministic: %q vs %q", first, second)
	}
}

func messageAt(id uint, role, content string, at time.Time) domain.Message {
	m := domain.Message{Role: role, Content: content}
	m.ID = id
	m.CreatedAt = at
	return m
}

func TestBuildContext_ChronologicalOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Newest-first input, as the repository returns it.
	recent := []domain.Message{
		messageAt(3, domain.RoleUser, "third", base.Add(2*time.Minute)),
		messageAt(2, domain.RoleAssistant, "second", base.Add(time.Minute)),
		messageAt(1, domain.RoleUser, "first", base),
	}

	turns := BuildContext(recent, 10)
	if len(turns) != 3 {
		t.Fatalf("len(turns) = %d; want 3", len(turns))
	}
	wantContent := []string{"first", "second", "third"}
	wantRole := []string{domain.RoleUser, domain.RoleAssistant, domain.RoleUser}
	for i, turn := range turns {
		if turn.Content != wantContent[i] {
			t.Fatalf("turns[%d].Content = %q; want %q", i, turn.Content, wantContent[i])
		}
		if turn.Role != wantRole[i] {
			t.Fatalf("turns[%d].Role = %q; want %q", i, turn.Role, wantRole[i])
		}
	}
}

func TestBuildContext_KeepsNewestWithinLimit(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := []domain.Message{
		messageAt(1, domain.RoleUser, "oldest", base),
		messageAt(2, domain.RoleAssistant, "middle", base.Add(time.Minute)),
		messageAt(3, domain.RoleUser, "newest", base.Add(2*time.Minute)),
	}

	turns := BuildContext(recent, 2)
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d; want 2", len(turns))
	}
	if turns[0].Content != "middle" || turns[1].Content != "newest" {
		t.Fatalf("turns = [%q, %q]; want [middle, newest]", turns[0].Content, turns[1].Content)
	}
}

func TestBuildContext_TiesBrokenByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := []domain.Message{
		messageAt(2, domain.RoleAssistant, "b", at),
		messageAt(1, domain.RoleUser, "a", at),
	}

	turns := BuildContext(recent, 10)
	if turns[0].Content != "a" || turns[1].Content != "b" {
		t.Fatalf("turns = [%q, %q]; want [a, b]", turns[0].Content, turns[1].Content)
	}
}

func TestBuildContext_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := []domain.Message{
		messageAt(2, domain.RoleAssistant, "b", base.Add(time.Minute)),
		messageAt(1, domain.RoleUser, "a", base),
	}

	BuildContext(recent, 10)

	if recent[0].ID != 2 || recent[1].ID != 1 {
		t.Fatalf("input slice reordered: IDs = [%d, %d]; want [2, 1]", recent[0].ID, recent[1].ID)
	}
}

func TestBuildContext_EmptyAndZeroLimit(t *testing.T) {
	if got := BuildContext(nil, 5); got != nil {
		t.Fatalf("BuildContext(nil) = %v; want nil", got)
	}
	msgs := []domain.Message{messageAt(1, domain.RoleUser, "a", time.Now())}
	if got := BuildContext(msgs, 0); got != nil {
		t.Fatalf("BuildContext(limit=0) = %v; want nil", got)
	}
}
