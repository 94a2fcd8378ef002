package domain

import "time"

// SessionStatus is the lifecycle state of a conversation session.
type SessionStatus string

const (
	SessionNew      SessionStatus = "NEW"
	SessionOpen     SessionStatus = "OPEN"
	SessionClosed   SessionStatus = "CLOSED"
	SessionTimedOut SessionStatus = "TIMED_OUT"
	SessionError    SessionStatus = "ERROR"
)

// Terminal reports whether the status permits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == SessionClosed || s == SessionTimedOut || s == SessionError
}

// Exchange is one request/response pair in a session's history.
type Exchange struct {
	Request  *AgentRequest  `json:"request"`
	Response *AgentResponse `json:"response"`
	At       time.Time      `json:"at"`
}

// Session is per-conversation state enabling multi-turn disambiguation.
// It carries no lock of its own: the session service serializes all
// mutations per session ID.
type Session struct {
	ID         string        `json:"id"`
	Status     SessionStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	History    []Exchange    `json:"history,omitempty"`
	Candidates []string      `json:"candidates,omitempty"`
	Attempts   int           `json:"attempts"`
}

// NewSession builds a session in the NEW state.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Status:    SessionNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Open transitions NEW (or already OPEN) to OPEN. Terminal sessions are
// never resurrected.
func (s *Session) Open() error {
	if s.Status.Terminal() {
		return NewDomainError("Session.Open", ErrSessionClosed, s.ID)
	}
	s.Status = SessionOpen
	return nil
}

// Close marks the session resolved or abandoned.
func (s *Session) Close() { s.Status = SessionClosed }

// MarkTimedOut marks the session reaped for inactivity.
func (s *Session) MarkTimedOut() { s.Status = SessionTimedOut }

// MarkError marks the session failed.
func (s *Session) MarkError() { s.Status = SessionError }

// Append records one exchange in the history.
func (s *Session) Append(req *AgentRequest, resp *AgentResponse) {
	s.History = append(s.History, Exchange{Request: req, Response: resp, At: time.Now()})
}

// Clone returns a deep-enough copy for handing to callers outside the
// session service's lock.
func (s *Session) Clone() *Session {
	cp := *s
	cp.History = append([]Exchange(nil), s.History...)
	cp.Candidates = append([]string(nil), s.Candidates...)
	return &cp
}
