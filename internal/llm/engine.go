package llm

import "context"

// Roles for chat completion messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a chat completion request.
type Message struct {
	Role    string
	Content string
}

// Stream yields incremental completion deltas until io.EOF.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Engine defines the interface for the language-model engine.
type Engine interface {
	// Complete runs a blocking chat completion and returns the full answer.
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)

	// CompleteStream opens an incremental completion stream. The caller
	// must drain or close the returned stream.
	CompleteStream(ctx context.Context, messages []Message) (Stream, error)

	// Ping verifies engine connectivity with a minimal completion.
	Ping(ctx context.Context) error
}
