package domain

// ResponseType discriminates the payload shape of an AgentResponse.
type ResponseType string

const (
	TypeError         ResponseType = "error"
	TypeText          ResponseType = "text"
	TypeEmbeddedImage ResponseType = "embedded_image"
)

// StatusCode categorizes the outcome of a dispatch attempt.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusNoAvailableAgent
	StatusAgentDidNotAnswer
	StatusInvalidAgentResponse
	StatusNeedsRefinement
	StatusAgentDidNotKnow
	StatusInternalError
)

// defaultMessages holds the human-readable default for each non-success code.
var defaultMessages = map[StatusCode]string{
	StatusSuccess:              "",
	StatusNoAvailableAgent:     "no agent is available to answer this request",
	StatusAgentDidNotAnswer:    "no agent produced an answer for this request",
	StatusInvalidAgentResponse: "an agent answered with invalid data",
	StatusNeedsRefinement:      "your request is ambiguous, please refine it",
	StatusAgentDidNotKnow:      "the agent could not resolve your request",
	StatusInternalError:        "an internal error occurred",
}

// String returns the symbolic name of the code.
func (c StatusCode) String() string {
	switch c {
	case StatusSuccess:
		return "SUCCESS"
	case StatusNoAvailableAgent:
		return "NO_AVAILABLE_AGENT"
	case StatusAgentDidNotAnswer:
		return "AGENT_DID_NOT_ANSWER"
	case StatusInvalidAgentResponse:
		return "INVALID_RESPONSE_FROM_AGENT"
	case StatusNeedsRefinement:
		return "NEEDS_REFINEMENT"
	case StatusAgentDidNotKnow:
		return "AGENT_DID_NOT_KNOW_ANSWER"
	case StatusInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Status is the machine-readable outcome carried on every response.
type Status struct {
	Code    StatusCode `json:"code"`
	Message string     `json:"message"`
}

// NewStatus builds a Status with the default message for the code.
func NewStatus(code StatusCode) Status {
	return Status{Code: code, Message: defaultMessages[code]}
}

// NewStatusMessage builds a Status overriding the default message.
func NewStatusMessage(code StatusCode, msg string) Status {
	return Status{Code: code, Message: msg}
}

// AgentResponse is the outcome of processing one request.
// Payload is base64 and only meaningful for payload-bearing types.
type AgentResponse struct {
	Type      ResponseType `json:"type"`
	Text      string       `json:"text"`
	Payload   string       `json:"payload,omitempty"`
	SessionID string       `json:"session_id,omitempty"`
	Status    Status       `json:"status"`
}

// NewTextResponse builds a successful text response.
func NewTextResponse(text string) *AgentResponse {
	return &AgentResponse{
		Type:   TypeText,
		Text:   text,
		Status: NewStatus(StatusSuccess),
	}
}

// NewImageResponse builds a successful embedded-image response. The payload
// is the base64-encoded image data.
func NewImageResponse(text, payload string) *AgentResponse {
	return &AgentResponse{
		Type:    TypeEmbeddedImage,
		Text:    text,
		Payload: payload,
		Status:  NewStatus(StatusSuccess),
	}
}

// NewErrorResponse builds an error response with the code's default message.
func NewErrorResponse(code StatusCode) *AgentResponse {
	return &AgentResponse{Type: TypeError, Status: NewStatus(code)}
}

// NewErrorResponseMessage builds an error response with an explicit message.
// The message is also carried as the response text so front ends can show it.
func NewErrorResponseMessage(code StatusCode, msg string) *AgentResponse {
	return &AgentResponse{
		Type:   TypeError,
		Text:   msg,
		Status: NewStatusMessage(code, msg),
	}
}

// Valid reports whether the response satisfies the wire invariants:
// a success must carry text, and a payload-bearing type must carry a payload.
func (r *AgentResponse) Valid() bool {
	if r == nil {
		return false
	}
	switch r.Type {
	case TypeText:
		if r.Status.Code == StatusSuccess && r.Text == "" {
			return false
		}
	case TypeEmbeddedImage:
		if r.Status.Code == StatusSuccess && r.Payload == "" {
			return false
		}
	case TypeError:
		// Error responses need only a status.
	default:
		return false
	}
	return true
}
