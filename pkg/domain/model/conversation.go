package model

import "github.com/m-mizutani/goerr/v2"

// Role is the author of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationWindow is the number of most recent turns fed to the router
// and the summarizer. Older history is dropped to bound prompt size.
const ConversationWindow = 5

// ConversationTurn is one message of the chat history supplied by the client.
// Turns are immutable once created.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Validate checks the turn has a known role and non-empty content
func (t ConversationTurn) Validate() error {
	if t.Role != RoleUser && t.Role != RoleAssistant {
		return goerr.New("invalid turn role", goerr.V("role", t.Role))
	}
	if t.Content == "" {
		return goerr.New("turn content cannot be empty")
	}
	return nil
}

// RecentTurns returns a read-only slice of the last ConversationWindow turns.
// The input slice is never mutated.
func RecentTurns(turns []ConversationTurn) []ConversationTurn {
	if len(turns) <= ConversationWindow {
		return turns
	}
	return turns[len(turns)-ConversationWindow:]
}

// LastUserMessage returns the content of the most recent user turn, or ""
func LastUserMessage(turns []ConversationTurn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content
		}
	}
	return ""
}
