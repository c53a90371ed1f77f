package domain

import "strings"

// Turn is a single message in a conversation (user or assistant).
// Immutable once appended to a Transcript.
type Turn struct {
	Role      Role
	Content   string
	CreatedAt Timestamp
}

// Transcript is the ordered log of turns for exactly one conversation.
// It caches no derived state: everything downstream (coverage, phase,
// policy) is recomputed from the turns on every read.
type Transcript struct {
	turns []Turn
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a turn to the log. The only rejection is empty or
// whitespace-only content.
func (t *Transcript) Append(role Role, content string, at Timestamp) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Code: CodeEmptyMessage, Message: "turn content cannot be empty"}
	}
	t.turns = append(t.turns, Turn{Role: role, Content: content, CreatedAt: at})
	return nil
}

// Turns returns a read view of the log. Callers must not mutate it.
func (t *Transcript) Turns() []Turn {
	return t.turns
}

func (t *Transcript) Len() int {
	return len(t.turns)
}

func (t *Transcript) UserTurnCount() int {
	return t.countByRole(RoleUser)
}

func (t *Transcript) AssistantTurnCount() int {
	return t.countByRole(RoleAssistant)
}

func (t *Transcript) countByRole(role Role) int {
	n := 0
	for _, turn := range t.turns {
		if turn.Role == role {
			n++
		}
	}
	return n
}

// LastTurn returns the most recent turn with the given role, if any.
func (t *Transcript) LastTurn(role Role) (Turn, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Role == role {
			return t.turns[i], true
		}
	}
	return Turn{}, false
}

// TrimLastTurn removes the most recently appended turn. The conversation
// service uses it to undo an optimistic user append when the generation
// call for that turn fails, so a failed turn leaves no trace and can be
// retried cleanly.
func (t *Transcript) TrimLastTurn() {
	if len(t.turns) > 0 {
		t.turns = t.turns[:len(t.turns)-1]
	}
}

// Reset clears the log.
func (t *Transcript) Reset() {
	t.turns = nil
}

// Render produces the transcript as alternating labeled lines, the form
// every prompt embeds ("user: ..." / "assistant: ...").
func (t *Transcript) Render(userLabel, assistantLabel string) string {
	var b strings.Builder
	for i, turn := range t.turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := userLabel
		if turn.Role == RoleAssistant {
			label = assistantLabel
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(turn.Content)
	}
	return b.String()
}

// JoinedLower concatenates all turn content lowercased, the blob the
// coverage analyzer matches criterion predicates against.
func (t *Transcript) JoinedLower() string {
	parts := make([]string, 0, len(t.turns))
	for _, turn := range t.turns {
		parts = append(parts, turn.Content)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
