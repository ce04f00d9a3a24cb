package types

// EventType discriminates the newline-delimited JSON events streamed to the
// chat client.
type EventType string

const (
	EventProgress EventType = "progress"
	EventText     EventType = "text"
	EventError    EventType = "error"
)

// StreamEvent is one line of the chat response stream.
// Message is set for progress and error events, Content for text events.
type StreamEvent struct {
	Type    EventType `json:"type"`
	Message string    `json:"message,omitempty"`
	Content string    `json:"content,omitempty"`
}

// NewProgressEvent builds a progress event with an informational message
func NewProgressEvent(message string) StreamEvent {
	return StreamEvent{Type: EventProgress, Message: message}
}

// NewTextEvent builds a text event carrying one chunk of generated output
func NewTextEvent(content string) StreamEvent {
	return StreamEvent{Type: EventText, Content: content}
}

// NewErrorEvent builds a terminal error event
func NewErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Message: message}
}
