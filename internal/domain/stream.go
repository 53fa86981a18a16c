package domain

// Stream event types emitted on /chat-stream. A stream carries zero or
// more chunk events and is terminated by exactly one done or error event.
const (
	EventChunk = "chunk"
	EventDone  = "done"
	EventError = "error"
)

// StreamEvent is one frame of the chat streaming protocol, serialized as
// a "data: <json>" line at the HTTP boundary.
type StreamEvent struct {
	Type       string `json:"type"`
	Content    string `json:"content,omitempty"`
	FullAnswer string `json:"full_answer,omitempty"`
	Note       string `json:"note,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ChunkEvent carries one incremental fragment of the answer.
func ChunkEvent(content string) StreamEvent {
	return StreamEvent{Type: EventChunk, Content: content}
}

// DoneEvent terminates a successful stream with the full answer. The note
// marks degraded answers (fallback responder).
func DoneEvent(fullAnswer, note string) StreamEvent {
	return StreamEvent{Type: EventDone, FullAnswer: fullAnswer, Note: note}
}

// ErrorEvent terminates a stream that failed validation or session lookup.
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Error: message}
}
