package domain

// Payload shapes are keyed by action. The validator is the only producer,
// so anything downstream can rely on the shape matching the action.

// AssignPayload accompanies an assign action.
type AssignPayload struct {
	Assignee string `json:"assignee"`
}

// StatusChangePayload accompanies a status_change action.
type StatusChangePayload struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}

// NotePayload accompanies a note action.
type NotePayload struct {
	Body string `json:"body"`
}

// ClosePayload accompanies a ticket close action.
type ClosePayload struct {
	Reason string `json:"reason,omitempty"`
}
