package domain

import "github.com/google/uuid"

// MaxRequestIDLen bounds caller-supplied request IDs.
const MaxRequestIDLen = 64

// AgentRequest is one inbound request. The text is immutable once built;
// transformations (wake-word stripping, etc.) produce a new request via
// WithText.
type AgentRequest struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// NewRequest builds a request with a generated ID.
func NewRequest(text string) *AgentRequest {
	return &AgentRequest{ID: uuid.NewString(), Text: text}
}

// NewRequestWithID builds a request with a caller-supplied ID, truncated
// to MaxRequestIDLen. An empty ID falls back to a generated one.
func NewRequestWithID(id, text string) *AgentRequest {
	if id == "" {
		return NewRequest(text)
	}
	if len(id) > MaxRequestIDLen {
		id = id[:MaxRequestIDLen]
	}
	return &AgentRequest{ID: id, Text: text}
}

// WithText returns a copy of the request carrying the transformed text.
func (r *AgentRequest) WithText(text string) *AgentRequest {
	cp := *r
	cp.Text = text
	return &cp
}
